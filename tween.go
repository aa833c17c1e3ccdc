package rig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// BoneTween procedurally animates up to 4 float64 fields of a bone or slot
// at once. Create one via TweenBonePosition, TweenBoneScale,
// TweenBoneRotation or TweenSlotColor and call Update(dt) each frame after
// AnimationState.Apply and before Skeleton.UpdateWorldTransform, so the tween
// overrides the animated pose.
//
// There is no global tween manager; callers own and update their tweens.
type BoneTween struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *BoneTween) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Reset rewinds every tween to its start so the group can play again.
func (g *BoneTween) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

func (g *BoneTween) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenBonePosition animates the bone's local X and Y toward the target.
func TweenBonePosition(b *Bone, toX, toY float64, duration float32, fn ease.TweenFunc) *BoneTween {
	g := &BoneTween{}
	g.add(&b.X, toX, duration, fn)
	g.add(&b.Y, toY, duration, fn)
	return g
}

// TweenBoneScale animates the bone's local ScaleX and ScaleY.
func TweenBoneScale(b *Bone, toSX, toSY float64, duration float32, fn ease.TweenFunc) *BoneTween {
	g := &BoneTween{}
	g.add(&b.ScaleX, toSX, duration, fn)
	g.add(&b.ScaleY, toSY, duration, fn)
	return g
}

// TweenBoneRotation animates the bone's local rotation in degrees.
func TweenBoneRotation(b *Bone, to float64, duration float32, fn ease.TweenFunc) *BoneTween {
	g := &BoneTween{}
	g.add(&b.Rotation, to, duration, fn)
	return g
}

// TweenSlotColor animates all four components of the slot tint.
func TweenSlotColor(s *Slot, to Color, duration float32, fn ease.TweenFunc) *BoneTween {
	g := &BoneTween{}
	g.add(&s.Color.R, to.R, duration, fn)
	g.add(&s.Color.G, to.G, duration, fn)
	g.add(&s.Color.B, to.B, duration, fn)
	g.add(&s.Color.A, to.A, duration, fn)
	return g
}
