// Package hitbox mirrors rig bounding-box attachments into a [resolv] space
// so animated hit and hurt boxes take part in the game's collision queries.
//
// Each visible bounding box becomes one axis-aligned resolv.Object sized to
// the box's world-space extent. Call [Tracker.Sync] after
// Skeleton.UpdateWorldTransform every frame.
//
// [resolv]: https://github.com/solarlune/resolv
package hitbox

import (
	"math"

	"github.com/phanxgames/rig"

	"github.com/solarlune/resolv"
)

// Box identifies the skeleton slot an object was created for. It is stored
// in resolv.Object.Data.
type Box struct {
	Skeleton *rig.Skeleton
	Slot     *rig.Slot
}

type boxKey struct {
	sk   *rig.Skeleton
	slot int
}

// Tracker owns the resolv objects for the bounding boxes of any number of
// skeletons sharing one space. A Tracker is not safe for concurrent use.
type Tracker struct {
	space   *resolv.Space
	objects map[boxKey]*resolv.Object
	verts   []float64
}

// NewTracker creates a Tracker that adds its objects to space.
func NewTracker(space *resolv.Space) *Tracker {
	return &Tracker{
		space:   space,
		objects: make(map[boxKey]*resolv.Object),
	}
}

// Sync creates, moves and removes objects so they match the bounding boxes
// currently attached to sk's slots. New objects receive tags plus the
// attachment name.
func (t *Tracker) Sync(sk *rig.Skeleton, tags ...string) {
	for _, slot := range sk.DrawOrder() {
		key := boxKey{sk, slot.Data.Index}
		obj := t.objects[key]
		a := slot.Attachment()
		if a == nil || a.Type != rig.AttachmentBoundingBox || len(a.Vertices) < 2 {
			if obj != nil {
				t.space.Remove(obj)
				delete(t.objects, key)
			}
			continue
		}

		t.verts = a.ComputeWorldVertices(slot.Bone(), t.verts[:0])
		x, y, w, h := extent(t.verts)

		if obj == nil {
			objTags := append(append([]string(nil), tags...), a.Name)
			obj = resolv.NewObject(x, y, w, h, objTags...)
			obj.SetShape(resolv.NewRectangle(0, 0, w, h))
			obj.Data = &Box{Skeleton: sk, Slot: slot}
			t.space.Add(obj)
			t.objects[key] = obj
			continue
		}
		if obj.W != w || obj.H != h {
			obj.W, obj.H = w, h
			obj.SetShape(resolv.NewRectangle(0, 0, w, h))
		}
		obj.X, obj.Y = x, y
		obj.Update()
	}
}

// Object returns the object tracking the slot index of sk, or nil when the
// slot has no bounding box.
func (t *Tracker) Object(sk *rig.Skeleton, slot int) *resolv.Object {
	return t.objects[boxKey{sk, slot}]
}

// Len returns the number of tracked objects.
func (t *Tracker) Len() int {
	return len(t.objects)
}

// Overlaps returns the boxes of other skeletons whose objects overlap the
// object of the slot index of sk. Only objects carrying all of tags are
// considered.
func (t *Tracker) Overlaps(sk *rig.Skeleton, slot int, tags ...string) []*Box {
	obj := t.Object(sk, slot)
	if obj == nil {
		return nil
	}
	check := obj.Check(0, 0, tags...)
	if check == nil {
		return nil
	}
	var hits []*Box
	for _, other := range check.Objects {
		box, ok := other.Data.(*Box)
		if !ok || box.Skeleton == sk || !overlap(obj, other) {
			continue
		}
		hits = append(hits, box)
	}
	return hits
}

// Remove drops every object belonging to sk from the space.
func (t *Tracker) Remove(sk *rig.Skeleton) {
	for key, obj := range t.objects {
		if key.sk == sk {
			t.space.Remove(obj)
			delete(t.objects, key)
		}
	}
}

// extent returns the axis-aligned box around x, y pairs.
func extent(verts []float64) (x, y, w, h float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i+1 < len(verts); i += 2 {
		minX = math.Min(minX, verts[i])
		maxX = math.Max(maxX, verts[i])
		minY = math.Min(minY, verts[i+1])
		maxY = math.Max(maxY, verts[i+1])
	}
	return minX, minY, maxX - minX, maxY - minY
}

// overlap narrows the cell-based broad phase of Check to a strict box test.
func overlap(a, b *resolv.Object) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
