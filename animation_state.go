package rig

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TrackEvent is a playback notification delivered to an EventSink.
type TrackEvent struct {
	Type  TrackEventType
	Entry *TrackEntry
	// Event is set for EventKeyed.
	Event Event
}

// EventSink receives track notifications. When set on an AnimationState,
// events queued during Update, Apply and the track setters are delivered in
// order before those methods return.
type EventSink interface {
	EmitTrackEvent(event TrackEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event TrackEvent)

// EmitTrackEvent calls f(event).
func (f EventSinkFunc) EmitTrackEvent(event TrackEvent) { f(event) }

// AnimationState plays animations on numbered tracks and poses a skeleton
// with the blended result. Lower tracks are applied first; higher tracks
// layer over them. Within one Apply, the first write to any bone or slot
// property uses BlendFirst so the result never depends on values left over
// from the previous frame.
//
// An AnimationState is not safe for concurrent use.
type AnimationState struct {
	Data *AnimationStateData

	// TimeScale multiplies every delta passed to Update. Default 1.
	TimeScale float64

	tracks []*TrackEntry
	sink   EventSink

	queue    []TrackEvent
	draining bool
	events   []Event
	errs     []error

	// written stamps each property ID with the frame that last wrote it.
	written map[int]uint64
	frame   uint64

	debug bool
	stats debugStats
}

// NewAnimationState creates an AnimationState with no tracks.
func NewAnimationState(data *AnimationStateData) *AnimationState {
	return &AnimationState{
		Data:      data,
		TimeScale: 1,
		written:   make(map[int]uint64),
	}
}

// SetEventSink sets the receiver for track events. nil discards them.
func (s *AnimationState) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables per-frame timing output and error reporting.
func (s *AnimationState) SetDebugMode(on bool) {
	s.debug = on
}

// Tracks returns the current entry of every track; empty tracks are nil.
// The slice must not be modified.
func (s *AnimationState) Tracks() []*TrackEntry {
	return s.tracks
}

// Current returns the current entry of a track, or nil.
func (s *AnimationState) Current(track int) *TrackEntry {
	if track < 0 || track >= len(s.tracks) {
		return nil
	}
	return s.tracks[track]
}

// TrackState reports whether a track is empty, playing or crossfading.
func (s *AnimationState) TrackState(track int) TrackState {
	cur := s.Current(track)
	switch {
	case cur == nil:
		return TrackEmpty
	case cur.mixingFrom != nil:
		return TrackCrossfading
	default:
		return TrackPlaying
	}
}

// SetAnimation looks up an animation by name and plays it on track,
// crossfading from the track's current entry.
func (s *AnimationState) SetAnimation(track int, name string, loop bool) (*TrackEntry, error) {
	anim, err := s.Data.SkeletonData.FindAnimation(name)
	if err != nil {
		return nil, fmt.Errorf("set animation on track %d: %w", track, err)
	}
	return s.SetAnimationWith(track, anim, loop), nil
}

// SetAnimationWith plays anim on track, discarding any queued entries. If the
// current entry was never applied it is replaced without a crossfade.
func (s *AnimationState) SetAnimationWith(track int, anim *Animation, loop bool) *TrackEntry {
	if s.debug {
		debugCheckTrack(track, "SetAnimation")
	}
	interrupt := true
	cur := s.expandTo(track)
	if cur != nil {
		if cur.nextTrackLast == -1 {
			s.tracks[track] = cur.mixingFrom
			if cur.mixingFrom != nil {
				cur.mixingFrom.mixingTo = nil
			}
			s.queueEvent(EventInterrupt, cur, Event{})
			s.queueEvent(EventEnd, cur, Event{})
			cur.next = nil
			cur = cur.mixingFrom
			interrupt = false
		} else {
			cur.next = nil
		}
	}
	entry := s.newEntry(track, anim, loop, cur)
	s.setCurrent(track, entry, interrupt)
	s.drain()
	return entry
}

// AddAnimation looks up an animation by name and queues it on track.
func (s *AnimationState) AddAnimation(track int, name string, loop bool, delay float64) (*TrackEntry, error) {
	anim, err := s.Data.SkeletonData.FindAnimation(name)
	if err != nil {
		return nil, fmt.Errorf("add animation on track %d: %w", track, err)
	}
	return s.AddAnimationWith(track, anim, loop, delay), nil
}

// AddAnimationWith queues anim after the last entry of track. A delay <= 0
// is relative to the end of the previous entry minus the crossfade
// duration; a positive delay is measured from the previous entry's start.
// On an empty track the animation starts immediately after delay.
func (s *AnimationState) AddAnimationWith(track int, anim *Animation, loop bool, delay float64) *TrackEntry {
	if s.debug {
		debugCheckTrack(track, "AddAnimation")
	}
	last := s.expandTo(track)
	if last != nil {
		for last.next != nil {
			last = last.next
		}
	}
	entry := s.newEntry(track, anim, loop, last)
	if last == nil {
		s.setCurrent(track, entry, true)
		s.drain()
		entry.Delay = math.Max(0, delay)
		return entry
	}

	last.next = entry
	if delay <= 0 {
		if dur := last.Animation.Duration; dur != 0 {
			if last.Loop {
				delay += dur * (1 + math.Floor(last.TrackTime/dur))
			} else {
				delay += math.Max(dur, last.TrackTime)
			}
			delay -= s.Data.Mix(last.Animation, anim)
		} else {
			delay = last.TrackTime
		}
	}
	entry.Delay = delay
	return entry
}

// SetEmptyAnimation crossfades track to the setup pose over mixDuration.
func (s *AnimationState) SetEmptyAnimation(track int, mixDuration float64) *TrackEntry {
	entry := s.SetAnimationWith(track, emptyAnimation, false)
	entry.MixDuration = mixDuration
	return entry
}

// AddEmptyAnimation queues a crossfade to the setup pose over mixDuration.
func (s *AnimationState) AddEmptyAnimation(track int, mixDuration, delay float64) *TrackEntry {
	if delay <= 0 {
		delay -= mixDuration
	}
	entry := s.AddAnimationWith(track, emptyAnimation, false, delay)
	entry.MixDuration = mixDuration
	return entry
}

// ClearTrack stops a track immediately. Bones keep their last applied pose.
func (s *AnimationState) ClearTrack(track int) {
	s.clearTrack(track)
	s.drain()
}

// ClearTracks stops every track immediately.
func (s *AnimationState) ClearTracks() {
	for i := range s.tracks {
		s.clearTrack(i)
	}
	s.tracks = s.tracks[:0]
	s.drain()
}

func (s *AnimationState) clearTrack(track int) {
	if track < 0 || track >= len(s.tracks) {
		return
	}
	cur := s.tracks[track]
	if cur == nil {
		return
	}
	s.queueEvent(EventEnd, cur, Event{})
	cur.next = nil
	for from := cur.mixingFrom; from != nil; {
		s.queueEvent(EventEnd, from, Event{})
		next := from.mixingFrom
		from.mixingFrom, from.mixingTo = nil, nil
		from = next
	}
	cur.mixingFrom = nil
	s.tracks[track] = nil
}

func (s *AnimationState) expandTo(track int) *TrackEntry {
	if track < len(s.tracks) {
		return s.tracks[track]
	}
	for len(s.tracks) <= track {
		s.tracks = append(s.tracks, nil)
	}
	return nil
}

func (s *AnimationState) newEntry(track int, anim *Animation, loop bool, last *TrackEntry) *TrackEntry {
	e := &TrackEntry{
		Animation:     anim,
		TrackIndex:    track,
		Loop:          loop,
		TimeScale:     1,
		Alpha:         1,
		MixBlend:      BlendReplace,
		trackLast:     -1,
		nextTrackLast: -1,
	}
	if last != nil {
		e.MixDuration = s.Data.Mix(last.Animation, anim)
	}
	return e
}

func (s *AnimationState) setCurrent(track int, entry *TrackEntry, interrupt bool) {
	from := s.tracks[track]
	s.tracks[track] = entry
	if from != nil {
		if interrupt {
			s.queueEvent(EventInterrupt, from, Event{})
		}
		entry.mixingFrom = from
		from.mixingTo = entry
		entry.MixTime = 0
	}
	s.queueEvent(EventStart, entry, Event{})
}

// Update advances every track by dt seconds: delays count down, queued
// entries are promoted, crossfades progress and finished entries are
// removed.
func (s *AnimationState) Update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	dt *= s.TimeScale
	for i, cur := range s.tracks {
		if cur == nil {
			continue
		}
		cur.trackLast = cur.nextTrackLast
		currentDelta := dt * cur.TimeScale

		if cur.Delay > 0 {
			cur.Delay -= currentDelta
			if cur.Delay > 0 {
				continue
			}
			currentDelta = -cur.Delay
			cur.Delay = 0
		}

		if next := cur.next; next != nil {
			// Promote the queued entry once the current one passed its delay,
			// carrying over the time overshoot.
			nextTime := cur.trackLast - next.Delay
			if nextTime >= 0 {
				next.Delay = 0
				if cur.TimeScale != 0 {
					next.TrackTime += (nextTime/cur.TimeScale + dt) * next.TimeScale
				}
				cur.TrackTime += currentDelta
				cur.next = nil
				s.setCurrent(i, next, true)
				for e := next; e.mixingFrom != nil; e = e.mixingFrom {
					e.MixTime += dt
				}
				continue
			}
		} else if cur.finished && cur.mixingFrom == nil {
			s.clearTrack(i)
			continue
		}

		if cur.mixingFrom != nil {
			s.updateMixingFrom(cur, dt)
		}

		prev := cur.TrackTime
		cur.TrackTime += currentDelta
		s.checkComplete(cur, prev)
	}
	s.drain()
	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

// updateMixingFrom advances the crossfade of to and drops outgoing entries
// once they have been applied at least once and the crossfade is complete.
func (s *AnimationState) updateMixingFrom(to *TrackEntry, dt float64) {
	from := to.mixingFrom
	if from == nil {
		return
	}
	s.updateMixingFrom(from, dt)
	from.trackLast = from.nextTrackLast

	if to.MixTime > 0 && to.MixTime >= to.MixDuration {
		to.mixingFrom = from.mixingFrom
		if from.mixingFrom != nil {
			from.mixingFrom.mixingTo = to
		}
		from.mixingFrom, from.mixingTo = nil, nil
		s.queueEvent(EventEnd, from, Event{})
		return
	}
	from.TrackTime += dt * from.TimeScale
	to.MixTime += dt
}

func (s *AnimationState) checkComplete(e *TrackEntry, prev float64) {
	dur := e.Animation.Duration
	if e.Loop {
		if dur > 0 && math.Floor(e.TrackTime/dur) > math.Floor(prev/dur) {
			s.queueEvent(EventComplete, e, Event{})
		}
		return
	}
	if !e.finished && e.TrackTime >= dur {
		e.finished = true
		s.queueEvent(EventComplete, e, Event{})
	}
}

// Apply poses sk from every active track. Errors from one track (a timeline
// targeting a missing bone or slot) are collected and returned together; the
// remaining timelines and tracks are still applied.
func (s *AnimationState) Apply(sk *Skeleton) error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		s.stats.timelineCount = 0
		s.stats.trackCount = 0
	}
	s.frame++
	s.errs = s.errs[:0]

	for _, cur := range s.tracks {
		if cur == nil || cur.Delay > 0 {
			continue
		}
		mix := cur.Alpha
		if cur.mixingFrom != nil {
			mix *= s.applyMixingFrom(cur, sk)
		}
		t := cur.AnimationTime()
		for _, tl := range cur.Animation.Timelines {
			blend := s.blendFor(tl.PropertyID(), cur.MixBlend)
			if err := tl.Apply(sk, t, mix, blend); err != nil {
				s.errs = append(s.errs, fmt.Errorf("track %d %q: %w", cur.TrackIndex, cur.Animation.Name, err))
			}
		}
		s.events = cur.Animation.Events(cur.trackLast, cur.TrackTime, cur.Loop, s.events[:0])
		for _, e := range s.events {
			s.queueEvent(EventKeyed, cur, e)
		}
		cur.nextTrackLast = cur.TrackTime
		if s.debug {
			s.stats.trackCount++
			s.stats.timelineCount += len(cur.Animation.Timelines)
		}
	}
	s.drain()

	var err error
	if len(s.errs) > 0 {
		err = errors.Join(s.errs...)
	}
	if s.debug {
		s.stats.applyTime = time.Since(t0)
		if err != nil {
			_, _ = fmt.Fprintf(DebugOutput, "[rig] apply: %v\n", err)
		}
		s.debugLog()
	}
	return err
}

// applyMixingFrom applies the entries to is crossfading out of and returns
// the crossfade weight of to. A property keyed by both the outgoing and the
// incoming animation is held at full weight so the incoming Replace blend
// yields lerp(outgoing, incoming, mix). Properties keyed only by the
// outgoing animation fade toward the setup pose.
func (s *AnimationState) applyMixingFrom(to *TrackEntry, sk *Skeleton) float64 {
	from := to.mixingFrom
	fromAlpha := from.Alpha
	if from.mixingFrom != nil {
		fromAlpha *= s.applyMixingFrom(from, sk)
	}
	mix := to.Mix()
	alphaMix := fromAlpha * (1 - mix)

	t := from.AnimationTime()
	for _, tl := range from.Animation.Timelines {
		id := tl.PropertyID()
		alpha := alphaMix
		if to.Animation.HasTimeline(id) {
			alpha = fromAlpha
		}
		if err := tl.Apply(sk, t, alpha, s.blendFor(id, from.MixBlend)); err != nil {
			s.errs = append(s.errs, fmt.Errorf("track %d %q mixing out: %w", from.TrackIndex, from.Animation.Name, err))
		}
	}
	from.nextTrackLast = from.TrackTime
	return mix
}

// blendFor returns BlendFirst for the first write to id this frame and blend
// for every later write.
func (s *AnimationState) blendFor(id int, blend MixBlend) MixBlend {
	if s.written[id] != s.frame {
		s.written[id] = s.frame
		return BlendFirst
	}
	return blend
}

func (s *AnimationState) queueEvent(typ TrackEventType, entry *TrackEntry, e Event) {
	s.queue = append(s.queue, TrackEvent{Type: typ, Entry: entry, Event: e})
}

// drain delivers queued events. A sink that changes tracks while handling an
// event appends to the queue; those events are delivered by the same drain.
func (s *AnimationState) drain() {
	if s.draining {
		return
	}
	s.draining = true
	for i := 0; i < len(s.queue); i++ {
		if s.sink != nil {
			s.sink.EmitTrackEvent(s.queue[i])
		}
	}
	s.queue = s.queue[:0]
	s.draining = false
}
