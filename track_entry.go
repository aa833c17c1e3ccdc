package rig

import "math"

// TrackEntry is one queued or playing animation on an AnimationState track.
// Exported fields may be adjusted after SetAnimation or AddAnimation returns.
type TrackEntry struct {
	Animation  *Animation
	TrackIndex int
	Loop       bool

	// TimeScale multiplies the delta time passed to Update. Default 1.
	TimeScale float64
	// Alpha scales the entry's mix weight. Default 1.
	Alpha float64
	// MixBlend is used for every property this entry does not write first in
	// a frame. Default BlendReplace.
	MixBlend MixBlend

	// Delay is the track time of the previous entry at which a queued entry
	// starts.
	Delay float64
	// TrackTime is the time in seconds this entry has been playing.
	TrackTime float64

	// MixDuration is the crossfade length from the previous entry.
	MixDuration float64
	// MixTime is the elapsed crossfade time.
	MixTime float64

	trackLast     float64
	nextTrackLast float64
	finished      bool

	next       *TrackEntry
	mixingFrom *TrackEntry
	mixingTo   *TrackEntry
}

// AnimationTime returns TrackTime mapped into the animation: wrapped when
// looping, clamped to the duration otherwise.
func (e *TrackEntry) AnimationTime() float64 {
	return e.Animation.wrapTime(e.TrackTime, e.Loop)
}

// Mix returns the crossfade weight of this entry in [0, 1], ramping linearly
// from 0 to 1 over MixDuration.
func (e *TrackEntry) Mix() float64 {
	if e.MixDuration <= 0 {
		return 1
	}
	return math.Min(1, e.MixTime/e.MixDuration)
}

// IsComplete reports whether playback reached the end of the animation at
// least once.
func (e *TrackEntry) IsComplete() bool {
	return e.TrackTime >= e.Animation.Duration
}

// Finished reports whether a non-looping entry has played to its end.
func (e *TrackEntry) Finished() bool {
	return e.finished
}

// Next returns the queued entry, or nil.
func (e *TrackEntry) Next() *TrackEntry { return e.next }

// MixingFrom returns the entry being crossfaded out, or nil.
func (e *TrackEntry) MixingFrom() *TrackEntry { return e.mixingFrom }

// MixingTo returns the entry this one is crossfading into, or nil.
func (e *TrackEntry) MixingTo() *TrackEntry { return e.mixingTo }
