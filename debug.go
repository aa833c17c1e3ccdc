package rig

import (
	"fmt"
	"io"
	"os"
	"time"
)

// DebugOutput receives debug-mode reports from skeletons and animation
// states. Defaults to stderr.
var DebugOutput io.Writer = os.Stderr

// debugStats holds per-frame timing metrics.
// Only populated when debug mode is on.
type debugStats struct {
	updateTime    time.Duration
	applyTime     time.Duration
	worldTime     time.Duration
	boneCount     int
	timelineCount int
	trackCount    int
}

// debugLog prints world transform timing for the skeleton.
func (s *Skeleton) debugLog() {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(DebugOutput, "[rig] %s world: %v | bones: %d\n",
		s.Data.Name, s.stats.worldTime, s.stats.boneCount)
}

// debugLog prints update and apply timing for the animation state.
func (s *AnimationState) debugLog() {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(DebugOutput, "[rig] update: %v | apply: %v | tracks: %d | timelines: %d\n",
		s.stats.updateTime, s.stats.applyTime, s.stats.trackCount, s.stats.timelineCount)
}

// debugCheckWorld warns when a bone's world matrix is not finite, which
// points at a zero-length axis or a bad value written through a field.
func debugCheckWorld(b *Bone) {
	if !b.world.IsFinite() {
		_, _ = fmt.Fprintf(DebugOutput, "[rig] warning: bone %q world matrix not finite: %v\n",
			b.Data.Name, b.world)
	}
}

// debugCheckTreeDepth warns if bone depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(b *Bone) {
	depth := 0
	for p := b; p != nil; p = p.Parent() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(DebugOutput, "[rig] warning: bone depth %d exceeds %d (bone %q)\n",
			depth, debugMaxTreeDepth, b.Data.Name)
	}
}

// debugCheckTrack panics when a track index is negative. Only called in debug
// mode; in release mode a negative index panics on the slice access instead.
func debugCheckTrack(track int, op string) {
	if track < 0 {
		panic(fmt.Sprintf("rig debug: %s on negative track %d", op, track))
	}
}
