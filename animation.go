package rig

import (
	"errors"
	"math"
)

// Animation is a named set of timelines. It is immutable after construction
// and may be applied to any number of skeletons, including from different
// goroutines.
type Animation struct {
	Name      string
	Duration  float64
	Timelines []Timeline

	events *EventTimeline
	ids    map[int]struct{}
}

// NewAnimation creates an animation whose duration is the latest keyframe
// time across timelines. At most one EventTimeline is used for events; a
// later one replaces an earlier one.
func NewAnimation(name string, timelines ...Timeline) *Animation {
	a := &Animation{
		Name:      name,
		Timelines: make([]Timeline, 0, len(timelines)),
		ids:       make(map[int]struct{}, len(timelines)),
	}
	for _, tl := range timelines {
		a.Duration = math.Max(a.Duration, tl.Duration())
		if et, ok := tl.(*EventTimeline); ok {
			a.events = et
			continue
		}
		a.Timelines = append(a.Timelines, tl)
		a.ids[tl.PropertyID()] = struct{}{}
	}
	return a
}

// emptyAnimation is played by SetEmptyAnimation to mix tracks out to the
// setup pose.
var emptyAnimation = NewAnimation("<empty>")

// HasTimeline reports whether the animation keys the property ID.
func (a *Animation) HasTimeline(id int) bool {
	_, ok := a.ids[id]
	return ok
}

// EventTimeline returns the animation's event timeline, or nil.
func (a *Animation) EventTimeline() *EventTimeline {
	return a.events
}

// wrapTime maps track time to animation time: modulo the duration when
// looping, clamped to the duration otherwise.
func (a *Animation) wrapTime(t float64, loop bool) float64 {
	if a.Duration == 0 {
		return 0
	}
	if loop {
		return math.Mod(t, a.Duration)
	}
	return math.Min(t, a.Duration)
}

// Events appends the events crossed when playback moves from lastTime to
// time. Times are track times; looping wraps them into the animation, and a
// step spanning whole periods fires every event once per period crossed.
func (a *Animation) Events(lastTime, time float64, loop bool, dst []Event) []Event {
	if a.events == nil {
		return dst
	}
	if !loop || a.Duration == 0 {
		if lastTime >= 0 {
			lastTime = a.wrapTime(lastTime, loop)
		}
		return a.events.Fire(lastTime, a.wrapTime(time, loop), dst)
	}

	d := a.Duration
	from := -1.0
	wraps := math.Floor(time / d)
	if lastTime >= 0 {
		from = math.Mod(lastTime, d)
		wraps -= math.Floor(lastTime / d)
	}
	for ; wraps > 0; wraps-- {
		dst = a.events.Fire(from, math.MaxFloat64, dst)
		from = -1
	}
	return a.events.Fire(from, math.Mod(time, d), dst)
}

// Apply poses sk at time using the same blend for every timeline, and
// appends crossed events to events. Timelines that target a missing bone or
// slot are reported together after all others were applied.
func (a *Animation) Apply(sk *Skeleton, lastTime, time float64, loop bool, events []Event, alpha float64, blend MixBlend) ([]Event, error) {
	t := a.wrapTime(time, loop)
	var errs []error
	for _, tl := range a.Timelines {
		if err := tl.Apply(sk, t, alpha, blend); err != nil {
			errs = append(errs, err)
		}
	}
	events = a.Events(lastTime, time, loop, events)
	return events, errors.Join(errs...)
}
