// Package ecs provides ECS adapters for rig skeletons and animation states.
//
// [NewDonburiSink] bridges rig track events (start, interrupt, end, complete,
// keyed events) into a [Donburi] world as typed events. Subscribe to
// [TrackEventType] in your ECS systems to receive them. [NewRig] attaches a
// skeleton and its animation state to an entity, and [UpdateRigs] advances
// every such entity once per frame.
//
// Usage:
//
//	entity := ecs.NewRig(world, skeleton, state)
//	ecs.TrackEventType.Subscribe(world, onTrackEvent)
//
//	// each tick
//	if err := ecs.UpdateRigs(world, dt); err != nil { ... }
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
