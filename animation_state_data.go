package rig

import "fmt"

type mixKey struct {
	from, to *Animation
}

// AnimationStateData holds the crossfade durations used when one animation
// replaces another on a track. It may be shared by many AnimationStates.
type AnimationStateData struct {
	SkeletonData *SkeletonData

	// DefaultMix is the crossfade duration in seconds for pairs without an
	// explicit entry. Zero switches instantly.
	DefaultMix float64

	mixes map[mixKey]float64
}

// NewAnimationStateData creates mix settings for animations of data.
func NewAnimationStateData(data *SkeletonData) *AnimationStateData {
	return &AnimationStateData{SkeletonData: data, mixes: make(map[mixKey]float64)}
}

// SetMix sets the crossfade duration from one named animation to another.
func (d *AnimationStateData) SetMix(from, to string, duration float64) error {
	fromAnim, err := d.SkeletonData.FindAnimation(from)
	if err != nil {
		return fmt.Errorf("set mix: %w", err)
	}
	toAnim, err := d.SkeletonData.FindAnimation(to)
	if err != nil {
		return fmt.Errorf("set mix: %w", err)
	}
	d.SetMixWith(fromAnim, toAnim, duration)
	return nil
}

// SetMixWith sets the crossfade duration between two animations.
func (d *AnimationStateData) SetMixWith(from, to *Animation, duration float64) {
	d.mixes[mixKey{from, to}] = duration
}

// Mix returns the crossfade duration from one animation to another.
func (d *AnimationStateData) Mix(from, to *Animation) float64 {
	if v, ok := d.mixes[mixKey{from, to}]; ok {
		return v
	}
	return d.DefaultMix
}
