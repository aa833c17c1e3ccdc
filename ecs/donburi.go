package ecs

import (
	"errors"
	"fmt"

	"github.com/phanxgames/rig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TrackEvent is a rig track event tagged with the entity whose animation
// state emitted it.
type TrackEvent struct {
	Entity donburi.Entity
	rig.TrackEvent
}

// TrackEventType is the Donburi event type for rig track events.
// Subscribe to this in your ECS systems to react to animation starts,
// completions and keyed events.
var TrackEventType = events.NewEventType[TrackEvent]()

// RigData is the per-entity skeleton and the animation state that poses it.
type RigData struct {
	Skeleton *rig.Skeleton
	State    *rig.AnimationState
}

// Rig is the Donburi component holding RigData.
var Rig = donburi.NewComponentType[RigData]()

type donburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiSink creates an EventSink that publishes to TrackEventType.
// Events are queued and delivered by events.ProcessAllEvents or
// TrackEventType.ProcessEvents.
func NewDonburiSink(world donburi.World, entity donburi.Entity) rig.EventSink {
	return &donburiSink{world: world, entity: entity}
}

func (s *donburiSink) EmitTrackEvent(event rig.TrackEvent) {
	TrackEventType.Publish(s.world, TrackEvent{Entity: s.entity, TrackEvent: event})
}

// NewRig creates an entity carrying a Rig component and routes the state's
// track events into the world.
func NewRig(world donburi.World, skeleton *rig.Skeleton, state *rig.AnimationState) donburi.Entity {
	entity := world.Create(Rig)
	state.SetEventSink(NewDonburiSink(world, entity))
	Rig.Set(world.Entry(entity), &RigData{Skeleton: skeleton, State: state})
	return entity
}

// UpdateRigs advances every Rig entity by dt seconds, applies its animation
// state and recomputes world transforms. Apply errors are collected per
// entity; every rig is still updated.
func UpdateRigs(world donburi.World, dt float64) error {
	var errs []error
	Rig.Each(world, func(entry *donburi.Entry) {
		r := Rig.Get(entry)
		if r.Skeleton == nil || r.State == nil {
			return
		}
		r.State.Update(dt)
		if err := r.State.Apply(r.Skeleton); err != nil {
			errs = append(errs, fmt.Errorf("entity %v: %w", entry.Entity(), err))
		}
		r.Skeleton.UpdateWorldTransform()
	})
	return errors.Join(errs...)
}
