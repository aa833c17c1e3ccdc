package rig

import (
	"fmt"
	"math"
	"sort"
)

// Property identifies the bone or slot field a timeline animates.
type Property uint8

const (
	PropertyRotate Property = iota
	PropertyTranslateX
	PropertyTranslateY
	PropertyScaleX
	PropertyScaleY
	PropertyShearX
	PropertyShearY
	PropertyColor
	PropertyAttachment
	PropertyEvent
)

var propertyNames = [...]string{
	PropertyRotate:     "rotate",
	PropertyTranslateX: "translateX",
	PropertyTranslateY: "translateY",
	PropertyScaleX:     "scaleX",
	PropertyScaleY:     "scaleY",
	PropertyShearX:     "shearX",
	PropertyShearY:     "shearY",
	PropertyColor:      "color",
	PropertyAttachment: "attachment",
	PropertyEvent:      "event",
}

// String returns the property name.
func (p Property) String() string {
	if int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return "unknown"
}

func (p Property) isBoneProperty() bool {
	return p <= PropertyShearY
}

// propertyID packs a property and its target index into one key. Two
// timelines with the same ID write the same field.
func propertyID(p Property, target int) int {
	return int(p)<<24 | target
}

// Timeline animates one property of one bone or slot. Timelines are
// immutable after construction and safe to share between goroutines.
type Timeline interface {
	// PropertyID identifies the field written by Apply.
	PropertyID() int
	// Duration is the time of the last keyframe.
	Duration() float64
	// Apply samples the timeline at time and writes the result into sk
	// using blend, weighted by alpha.
	Apply(sk *Skeleton, time, alpha float64, blend MixBlend) error
}

// Keyframe is one sample of a float timeline. Curve controls interpolation
// toward the next keyframe.
type Keyframe struct {
	Time  float64
	Value float64
	Curve Curve
}

// checkTimes reports ErrKeyframeOrder unless times are finite, non-negative
// and strictly increasing.
func checkTimes(n int, at func(i int) float64) error {
	prev := -1.0
	for i := 0; i < n; i++ {
		t := at(i)
		if !isFinite(t) || t < 0 || t <= prev {
			return fmt.Errorf("key %d at %v after %v: %w", i, t, prev, ErrKeyframeOrder)
		}
		prev = t
	}
	return nil
}

type timedKey interface {
	keyTime() float64
}

func (k Keyframe) keyTime() float64           { return k.Time }
func (k ColorKeyframe) keyTime() float64      { return k.Time }
func (k AttachmentKeyframe) keyTime() float64 { return k.Time }

// searchKey binary-searches for the index of the last key whose time is
// <= time. The caller guarantees keys[0].Time <= time < keys[len-1].Time.
func searchKey[K timedKey](keys []K, time float64) int {
	lo, hi := 0, len(keys)-1
	for hi-lo > 1 {
		mid := int(uint(lo+hi) >> 1)
		if keys[mid].keyTime() <= time {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// FloatTimeline animates a single float field of a bone. Values are relative
// to the bone's setup pose: rotate, translate and shear keys are offsets
// added to the setup value, scale keys multiply it.
type FloatTimeline struct {
	Property Property
	Bone     int
	keys     []Keyframe
}

// NewFloatTimeline validates and copies keys. Keys must have strictly
// increasing times and finite values.
func NewFloatTimeline(prop Property, bone int, keys ...Keyframe) (*FloatTimeline, error) {
	if !prop.isBoneProperty() {
		return nil, fmt.Errorf("float timeline: property %s is not a bone property", prop)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s timeline: no keyframes: %w", prop, ErrKeyframeOrder)
	}
	if err := checkTimes(len(keys), func(i int) float64 { return keys[i].Time }); err != nil {
		return nil, fmt.Errorf("%s timeline: %w", prop, err)
	}
	for i, k := range keys {
		if !isFinite(k.Value) {
			return nil, fmt.Errorf("%s timeline key %d value %v: %w", prop, i, k.Value, ErrInvalidTransform)
		}
	}
	return &FloatTimeline{
		Property: prop,
		Bone:     bone,
		keys:     append([]Keyframe(nil), keys...),
	}, nil
}

// NewRotateTimeline creates a timeline of rotation offsets in degrees.
func NewRotateTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyRotate, bone, keys...)
}

// NewTranslateXTimeline creates a timeline of X offsets.
func NewTranslateXTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyTranslateX, bone, keys...)
}

// NewTranslateYTimeline creates a timeline of Y offsets.
func NewTranslateYTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyTranslateY, bone, keys...)
}

// NewScaleXTimeline creates a timeline of X scale multipliers.
func NewScaleXTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyScaleX, bone, keys...)
}

// NewScaleYTimeline creates a timeline of Y scale multipliers.
func NewScaleYTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyScaleY, bone, keys...)
}

// NewShearXTimeline creates a timeline of X shear offsets in degrees.
func NewShearXTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyShearX, bone, keys...)
}

// NewShearYTimeline creates a timeline of Y shear offsets in degrees.
func NewShearYTimeline(bone int, keys ...Keyframe) (*FloatTimeline, error) {
	return NewFloatTimeline(PropertyShearY, bone, keys...)
}

// Keyframes returns the keys. The slice must not be modified.
func (t *FloatTimeline) Keyframes() []Keyframe { return t.keys }

// PropertyID implements Timeline.
func (t *FloatTimeline) PropertyID() int { return propertyID(t.Property, t.Bone) }

// Duration implements Timeline.
func (t *FloatTimeline) Duration() float64 { return t.keys[len(t.keys)-1].Time }

// Sample returns the keyed value at time. Before the first key the first
// value is returned, after the last key the last value; no extrapolation.
func (t *FloatTimeline) Sample(time float64) float64 {
	keys := t.keys
	if time <= keys[0].Time {
		return keys[0].Value
	}
	last := len(keys) - 1
	if time >= keys[last].Time {
		return keys[last].Value
	}
	i := searchKey(keys, time)
	k, next := keys[i], keys[i+1]
	if time == k.Time {
		return k.Value
	}
	p := k.Curve.Percent((time - k.Time) / (next.Time - k.Time))
	return k.Value + (next.Value-k.Value)*p
}

// Apply implements Timeline.
func (t *FloatTimeline) Apply(sk *Skeleton, time, alpha float64, blend MixBlend) error {
	if t.Bone < 0 || t.Bone >= len(sk.bones) {
		return fmt.Errorf("%s timeline: bone %d: %w", t.Property, t.Bone, ErrUnknownBone)
	}
	field, setup := sk.bones[t.Bone].floatField(t.Property)
	v := t.Sample(time)

	var abs, delta float64
	switch t.Property {
	case PropertyScaleX, PropertyScaleY:
		abs = setup * v
		delta = abs - setup
	default:
		abs = setup + v
		delta = v
	}
	*field = blendFloat(*field, setup, abs, delta, alpha, blend, t.Property == PropertyRotate)
	return nil
}

// blendFloat combines a sampled value with the current field value.
func blendFloat(current, setup, abs, delta, alpha float64, blend MixBlend, angle bool) float64 {
	switch blend {
	case BlendSetup:
		return abs
	case BlendFirst:
		return mixFloat(setup, abs, alpha, angle)
	case BlendAdditive:
		return current + delta*alpha
	default:
		return mixFloat(current, abs, alpha, angle)
	}
}

// mixFloat interpolates from toward to. Angles take the shortest arc.
func mixFloat(from, to, alpha float64, angle bool) float64 {
	if alpha == 1 {
		return to
	}
	d := to - from
	if angle {
		d = wrapDegrees(d)
	}
	return from + d*alpha
}

// ColorKeyframe is one sample of a ColorTimeline.
type ColorKeyframe struct {
	Time  float64
	Color Color
	Curve Curve
}

// ColorTimeline animates a slot's tint. Values are absolute colors.
type ColorTimeline struct {
	Slot int
	keys []ColorKeyframe
}

// NewColorTimeline validates and copies keys.
func NewColorTimeline(slot int, keys ...ColorKeyframe) (*ColorTimeline, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("color timeline: no keyframes: %w", ErrKeyframeOrder)
	}
	if err := checkTimes(len(keys), func(i int) float64 { return keys[i].Time }); err != nil {
		return nil, fmt.Errorf("color timeline: %w", err)
	}
	return &ColorTimeline{Slot: slot, keys: append([]ColorKeyframe(nil), keys...)}, nil
}

// Keyframes returns the keys. The slice must not be modified.
func (t *ColorTimeline) Keyframes() []ColorKeyframe { return t.keys }

// PropertyID implements Timeline.
func (t *ColorTimeline) PropertyID() int { return propertyID(PropertyColor, t.Slot) }

// Duration implements Timeline.
func (t *ColorTimeline) Duration() float64 { return t.keys[len(t.keys)-1].Time }

// Sample returns the keyed color at time, clamped at both ends.
func (t *ColorTimeline) Sample(time float64) Color {
	keys := t.keys
	if time <= keys[0].Time {
		return keys[0].Color
	}
	last := len(keys) - 1
	if time >= keys[last].Time {
		return keys[last].Color
	}
	i := searchKey(keys, time)
	k, next := keys[i], keys[i+1]
	if time == k.Time {
		return k.Color
	}
	p := k.Curve.Percent((time - k.Time) / (next.Time - k.Time))
	return k.Color.lerp(next.Color, p)
}

// Apply implements Timeline. Additive blending is treated as replace since
// tints do not accumulate.
func (t *ColorTimeline) Apply(sk *Skeleton, time, alpha float64, blend MixBlend) error {
	if t.Slot < 0 || t.Slot >= len(sk.slots) {
		return fmt.Errorf("color timeline: slot %d: %w", t.Slot, ErrUnknownSlot)
	}
	slot := &sk.slots[t.Slot]
	c := t.Sample(time)
	switch {
	case blend == BlendSetup || alpha == 1:
		slot.Color = c
	case blend == BlendFirst:
		slot.Color = slot.Data.Color.lerp(c, alpha)
	default:
		slot.Color = slot.Color.lerp(c, alpha)
	}
	return nil
}

// AttachmentKeyframe switches a slot's attachment at Time. An empty Name
// hides the slot.
type AttachmentKeyframe struct {
	Time float64
	Name string
}

// attachmentThreshold is the mix weight at or above which an attachment
// timeline takes effect.
const attachmentThreshold = 0.5

// AttachmentTimeline switches a slot's visible attachment. It is always
// stepped.
type AttachmentTimeline struct {
	Slot int
	keys []AttachmentKeyframe
}

// NewAttachmentTimeline validates and copies keys.
func NewAttachmentTimeline(slot int, keys ...AttachmentKeyframe) (*AttachmentTimeline, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("attachment timeline: no keyframes: %w", ErrKeyframeOrder)
	}
	if err := checkTimes(len(keys), func(i int) float64 { return keys[i].Time }); err != nil {
		return nil, fmt.Errorf("attachment timeline: %w", err)
	}
	return &AttachmentTimeline{Slot: slot, keys: append([]AttachmentKeyframe(nil), keys...)}, nil
}

// Keyframes returns the keys. The slice must not be modified.
func (t *AttachmentTimeline) Keyframes() []AttachmentKeyframe { return t.keys }

// PropertyID implements Timeline.
func (t *AttachmentTimeline) PropertyID() int { return propertyID(PropertyAttachment, t.Slot) }

// Duration implements Timeline.
func (t *AttachmentTimeline) Duration() float64 { return t.keys[len(t.keys)-1].Time }

// Sample returns the attachment name keyed at time.
func (t *AttachmentTimeline) Sample(time float64) string {
	keys := t.keys
	if time <= keys[0].Time {
		return keys[0].Name
	}
	if time >= keys[len(keys)-1].Time {
		return keys[len(keys)-1].Name
	}
	return keys[searchKey(keys, time)].Name
}

// Apply implements Timeline. Below the attachment threshold a First or
// Setup blend restores the setup attachment and other blends leave the slot
// untouched. Additive blending never switches attachments.
func (t *AttachmentTimeline) Apply(sk *Skeleton, time, alpha float64, blend MixBlend) error {
	if t.Slot < 0 || t.Slot >= len(sk.slots) {
		return fmt.Errorf("attachment timeline: slot %d: %w", t.Slot, ErrUnknownSlot)
	}
	slot := &sk.slots[t.Slot]
	switch {
	case blend == BlendAdditive:
		return nil
	case blend != BlendSetup && alpha < attachmentThreshold:
		if blend == BlendFirst {
			return slot.setAttachmentName(slot.Data.AttachmentName)
		}
		return nil
	}
	return slot.setAttachmentName(t.Sample(time))
}

// Event is a named marker keyed on an EventTimeline.
type Event struct {
	Time   float64
	Name   string
	Int    int
	Float  float64
	String string
}

// EventTimeline fires events as playback crosses their times. It writes no
// skeleton state.
type EventTimeline struct {
	events []Event
}

// NewEventTimeline validates and copies events. Times must be non-decreasing;
// several events may share a time.
func NewEventTimeline(events ...Event) (*EventTimeline, error) {
	prev := 0.0
	for i, e := range events {
		if !isFinite(e.Time) || e.Time < prev {
			return nil, fmt.Errorf("event timeline: event %d %q at %v: %w", i, e.Name, e.Time, ErrKeyframeOrder)
		}
		prev = e.Time
	}
	return &EventTimeline{events: append([]Event(nil), events...)}, nil
}

// Events returns the keyed events. The slice must not be modified.
func (t *EventTimeline) Events() []Event { return t.events }

// PropertyID implements Timeline.
func (t *EventTimeline) PropertyID() int { return propertyID(PropertyEvent, 0) }

// Duration implements Timeline.
func (t *EventTimeline) Duration() float64 {
	if len(t.events) == 0 {
		return 0
	}
	return t.events[len(t.events)-1].Time
}

// Apply implements Timeline. Events are collected by Animation, not applied.
func (t *EventTimeline) Apply(*Skeleton, float64, float64, MixBlend) error { return nil }

// Fire appends to dst every event with lastTime < Time <= time. When
// lastTime > time playback wrapped, so events after lastTime fire first,
// then events from the start through time. A negative lastTime includes
// events keyed at zero.
func (t *EventTimeline) Fire(lastTime, time float64, dst []Event) []Event {
	if len(t.events) == 0 {
		return dst
	}
	if lastTime > time {
		dst = t.Fire(lastTime, math.MaxFloat64, dst)
		lastTime = -1
	}
	i := sort.Search(len(t.events), func(i int) bool { return t.events[i].Time > lastTime })
	for ; i < len(t.events) && t.events[i].Time <= time; i++ {
		dst = append(dst, t.events[i])
	}
	return dst
}
