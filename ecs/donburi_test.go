package ecs

import (
	"errors"
	"testing"

	"github.com/phanxgames/rig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func newTestRig(t *testing.T) (*rig.Skeleton, *rig.AnimationState) {
	t.Helper()
	data := rig.NewSkeletonData("hero")
	if _, err := data.AddBone(rig.NewBoneData("root", -1)); err != nil {
		t.Fatal(err)
	}
	arm := rig.NewBoneData("arm", 0)
	arm.X = 10
	if _, err := data.AddBone(arm); err != nil {
		t.Fatal(err)
	}
	swing, err := rig.NewRotateTimeline(1,
		rig.Keyframe{Time: 0},
		rig.Keyframe{Time: 1, Value: 90},
	)
	if err != nil {
		t.Fatal(err)
	}
	et, err := rig.NewEventTimeline(rig.Event{Time: 0.5, Name: "whoosh"})
	if err != nil {
		t.Fatal(err)
	}
	if err := data.AddAnimation(rig.NewAnimation("swing", swing, et)); err != nil {
		t.Fatal(err)
	}
	return rig.NewSkeleton(data), rig.NewAnimationState(rig.NewAnimationStateData(data))
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world, world.Create(Rig))
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink rig.EventSink = NewDonburiSink(world, world.Create(Rig))
	_ = sink // compile-time interface check
}

func TestNewRig_PublishesTrackEvents(t *testing.T) {
	world := donburi.NewWorld()
	sk, state := newTestRig(t)
	entity := NewRig(world, sk, state)

	var received []TrackEvent
	TrackEventType.Subscribe(world, func(w donburi.World, e TrackEvent) {
		received = append(received, e)
	})

	if _, err := state.SetAnimation(0, "swing", false); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := UpdateRigs(world, 0.3); err != nil {
			t.Fatal(err)
		}
	}

	// Events are queued; process them.
	TrackEventType.ProcessEvents(world)

	var types []rig.TrackEventType
	for _, e := range received {
		if e.Entity != entity {
			t.Errorf("event entity = %v, want %v", e.Entity, entity)
		}
		types = append(types, e.Type)
	}
	want := []rig.TrackEventType{rig.EventStart, rig.EventKeyed, rig.EventComplete}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
	if received[1].Event.Name != "whoosh" {
		t.Errorf("keyed event = %q, want whoosh", received[1].Event.Name)
	}
}

func TestUpdateRigs_PosesSkeleton(t *testing.T) {
	world := donburi.NewWorld()
	sk, state := newTestRig(t)
	NewRig(world, sk, state)
	if _, err := state.SetAnimation(0, "swing", true); err != nil {
		t.Fatal(err)
	}

	if err := UpdateRigs(world, 0.5); err != nil {
		t.Fatal(err)
	}
	if got := sk.Bone(1).Rotation; got != 45 {
		t.Errorf("arm rotation = %v, want 45", got)
	}
}

func TestUpdateRigs_CollectsErrors(t *testing.T) {
	world := donburi.NewWorld()
	sk, state := newTestRig(t)
	NewRig(world, sk, state)
	okSk, okState := newTestRig(t)
	NewRig(world, okSk, okState)

	broken, err := rig.NewRotateTimeline(7, rig.Keyframe{Time: 0, Value: 1})
	if err != nil {
		t.Fatal(err)
	}
	state.SetAnimationWith(0, rig.NewAnimation("broken", broken), true)
	if _, err := okState.SetAnimation(0, "swing", true); err != nil {
		t.Fatal(err)
	}

	err = UpdateRigs(world, 0.5)
	if !errors.Is(err, rig.ErrUnknownBone) {
		t.Fatalf("err = %v, want ErrUnknownBone", err)
	}
	if got := okSk.Bone(1).Rotation; got != 45 {
		t.Errorf("healthy rig rotation = %v, want 45", got)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world, world.Create(Rig))

	var count1, count2 int
	TrackEventType.Subscribe(world, func(w donburi.World, e TrackEvent) {
		count1++
	})
	TrackEventType.Subscribe(world, func(w donburi.World, e TrackEvent) {
		count2++
	})

	sink.EmitTrackEvent(rig.TrackEvent{Type: rig.EventEnd})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
