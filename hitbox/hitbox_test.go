package hitbox

import (
	"testing"

	"github.com/phanxgames/rig"

	"github.com/solarlune/resolv"
)

func square(half float64) []float64 {
	return []float64{-half, -half, half, -half, half, half, -half, half}
}

// newFighter builds root -> arm with a 20x20 "hurt" box on root and a 4x4
// "fist" box at the arm origin, 10 units along root's X axis.
func newFighter(t *testing.T) *rig.SkeletonData {
	t.Helper()
	data := rig.NewSkeletonData("fighter")
	if _, err := data.AddBone(rig.NewBoneData("root", -1)); err != nil {
		t.Fatal(err)
	}
	arm := rig.NewBoneData("arm", 0)
	arm.X = 10
	if _, err := data.AddBone(arm); err != nil {
		t.Fatal(err)
	}
	hurt := rig.NewSlotData("hurt", 0)
	hurt.AttachmentName = "hurt"
	if _, err := data.AddSlot(hurt); err != nil {
		t.Fatal(err)
	}
	fist := rig.NewSlotData("fist", 1)
	fist.AttachmentName = "fist"
	if _, err := data.AddSlot(fist); err != nil {
		t.Fatal(err)
	}
	skin := rig.NewSkin("default")
	skin.SetAttachment(0, "hurt", rig.NewBoundingBoxAttachment("hurt", square(10)))
	skin.SetAttachment(1, "fist", rig.NewBoundingBoxAttachment("fist", square(2)))
	if err := data.AddSkin(skin); err != nil {
		t.Fatal(err)
	}
	return data
}

func place(data *rig.SkeletonData, x, y float64) *rig.Skeleton {
	sk := rig.NewSkeleton(data)
	sk.X, sk.Y = x, y
	sk.UpdateWorldTransform()
	return sk
}

func TestSyncCreatesObjects(t *testing.T) {
	space := resolv.NewSpace(640, 480, 16, 16)
	tr := NewTracker(space)
	sk := place(newFighter(t), 100, 100)
	tr.Sync(sk, "player")

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	hurt := tr.Object(sk, 0)
	if hurt == nil {
		t.Fatal("no object for hurt slot")
	}
	if hurt.X != 90 || hurt.Y != 90 || hurt.W != 20 || hurt.H != 20 {
		t.Errorf("hurt = (%v, %v, %v, %v), want (90, 90, 20, 20)", hurt.X, hurt.Y, hurt.W, hurt.H)
	}
	if !hurt.HasTags("player", "hurt") {
		t.Error("object missing tags")
	}
	box, ok := hurt.Data.(*Box)
	if !ok || box.Skeleton != sk || box.Slot != sk.Slot(0) {
		t.Errorf("Data = %#v", hurt.Data)
	}
}

func TestSyncFollowsBones(t *testing.T) {
	space := resolv.NewSpace(640, 480, 16, 16)
	tr := NewTracker(space)
	sk := place(newFighter(t), 100, 100)
	tr.Sync(sk)

	sk.Bone(1).Rotation = 90
	sk.Bone(1).ScaleX = 3
	sk.UpdateWorldTransform()
	tr.Sync(sk)

	fist := tr.Object(sk, 1)
	// The fist box rotated 90 degrees and stretched 3x along the arm.
	if fist.X != 108 || fist.Y != 94 || fist.W != 4 || fist.H != 12 {
		t.Errorf("fist = (%v, %v, %v, %v), want (108, 94, 4, 12)", fist.X, fist.Y, fist.W, fist.H)
	}
}

func TestSyncRemovesHiddenBoxes(t *testing.T) {
	space := resolv.NewSpace(640, 480, 16, 16)
	tr := NewTracker(space)
	sk := place(newFighter(t), 100, 100)
	tr.Sync(sk)

	if err := sk.SetAttachment("fist", ""); err != nil {
		t.Fatal(err)
	}
	tr.Sync(sk)
	if tr.Object(sk, 1) != nil || tr.Len() != 1 {
		t.Errorf("hidden box still tracked: Len = %d", tr.Len())
	}
}

func TestOverlaps(t *testing.T) {
	space := resolv.NewSpace(640, 480, 16, 16)
	tr := NewTracker(space)
	data := newFighter(t)
	attacker := place(data, 100, 100)
	target := place(data, 140, 100)
	tr.Sync(attacker, "player")
	tr.Sync(target, "enemy")

	if hits := tr.Overlaps(attacker, 1, "enemy"); len(hits) != 0 {
		t.Fatalf("unexpected hits at distance: %d", len(hits))
	}

	target.X = 118
	target.UpdateWorldTransform()
	tr.Sync(target)

	hits := tr.Overlaps(attacker, 1, "enemy")
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Skeleton != target || hits[0].Slot.Data.Name != "hurt" {
		t.Errorf("hit = %s on %p, want hurt on target", hits[0].Slot.Data.Name, hits[0].Skeleton)
	}
	if hits := tr.Overlaps(attacker, 1, "player"); len(hits) != 0 {
		t.Errorf("own boxes reported as hits: %d", len(hits))
	}
}

func TestRemove(t *testing.T) {
	space := resolv.NewSpace(640, 480, 16, 16)
	tr := NewTracker(space)
	data := newFighter(t)
	a := place(data, 100, 100)
	b := place(data, 300, 100)
	tr.Sync(a)
	tr.Sync(b)

	tr.Remove(a)
	if tr.Len() != 2 || tr.Object(a, 0) != nil || tr.Object(b, 0) == nil {
		t.Errorf("Remove dropped the wrong objects: Len = %d", tr.Len())
	}
	if hits := tr.Overlaps(a, 1); hits != nil {
		t.Errorf("removed skeleton still overlaps: %v", hits)
	}
}
