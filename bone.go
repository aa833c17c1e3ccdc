package rig

import (
	"fmt"
	"math"
)

// BoneData is the setup definition of a bone, shared by every Skeleton built
// from the same SkeletonData.
type BoneData struct {
	Index  int
	Name   string
	Parent int // index of the parent bone, -1 for a root
	Length float64

	// Setup pose. Rotation and shear are in degrees.
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	ShearX, ShearY float64

	TransformMode TransformMode
}

// NewBoneData returns a BoneData with identity setup values.
func NewBoneData(name string, parent int) BoneData {
	return BoneData{
		Name:   name,
		Parent: parent,
		ScaleX: 1,
		ScaleY: 1,
	}
}

// InheritRotation reports whether the bone follows its parent's rotation.
func (d *BoneData) InheritRotation() bool {
	return d.TransformMode != TransformNoRotationOrReflection &&
		d.TransformMode != TransformOnlyTranslation
}

// InheritScale reports whether the bone follows its parent's scale.
func (d *BoneData) InheritScale() bool {
	return d.TransformMode == TransformNormal ||
		d.TransformMode == TransformNoRotationOrReflection
}

func (d *BoneData) validate() error {
	for _, v := range [...]float64{d.X, d.Y, d.Rotation, d.ScaleX, d.ScaleY, d.ShearX, d.ShearY, d.Length} {
		if !isFinite(v) {
			return fmt.Errorf("bone %q setup: %w", d.Name, ErrInvalidTransform)
		}
	}
	return nil
}

// Bone is the runtime instance of a BoneData inside a Skeleton. The skeleton
// owns every bone; the parent is held as an index into the skeleton's bone
// list.
type Bone struct {
	Data *BoneData

	skeleton *Skeleton
	parent   int

	// Local transform. Rotation and shear are in degrees. Animation timelines
	// write these fields directly; use SetLocal to validate external input.
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	ShearX, ShearY float64

	world Affine
}

// Parent returns the parent bone, or nil for a root.
func (b *Bone) Parent() *Bone {
	if b.parent < 0 {
		return nil
	}
	return &b.skeleton.bones[b.parent]
}

// Skeleton returns the skeleton that owns the bone.
func (b *Bone) Skeleton() *Skeleton {
	return b.skeleton
}

// SetLocal replaces the local transform. Non-finite values are rejected with
// ErrInvalidTransform and nothing is stored. Zero and negative scales are
// legal.
func (b *Bone) SetLocal(x, y, rotation, scaleX, scaleY, shearX, shearY float64) error {
	for _, v := range [...]float64{x, y, rotation, scaleX, scaleY, shearX, shearY} {
		if !isFinite(v) {
			return fmt.Errorf("bone %q: set local (%v, %v, %v, %v, %v, %v, %v): %w",
				b.Data.Name, x, y, rotation, scaleX, scaleY, shearX, shearY, ErrInvalidTransform)
		}
	}
	b.X, b.Y = x, y
	b.Rotation = rotation
	b.ScaleX, b.ScaleY = scaleX, scaleY
	b.ShearX, b.ShearY = shearX, shearY
	return nil
}

// SetToSetupPose copies the setup values from Data into the local transform.
func (b *Bone) SetToSetupPose() {
	d := b.Data
	b.X, b.Y = d.X, d.Y
	b.Rotation = d.Rotation
	b.ScaleX, b.ScaleY = d.ScaleX, d.ScaleY
	b.ShearX, b.ShearY = d.ShearX, d.ShearY
}

// LocalTransform returns the matrix of the current local transform.
func (b *Bone) LocalTransform() Affine {
	return localTransform(b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY, b.ShearX, b.ShearY)
}

// UpdateWorld recomputes the world matrix from the local transform and the
// parent's world matrix. The parent must already be updated this frame;
// Skeleton.UpdateWorldTransform guarantees that ordering.
func (b *Bone) UpdateWorld() {
	sk := b.skeleton
	sx, sy := sk.ScaleX, sk.ScaleY

	if b.parent < 0 {
		w := b.LocalTransform()
		w[0] *= sx
		w[2] *= sx
		w[1] *= sy
		w[3] *= sy
		w[4] = b.X*sx + sk.X
		w[5] = b.Y*sy + sk.Y
		b.world = w
		return
	}

	p := sk.bones[b.parent].world
	if b.Data.TransformMode == TransformNormal {
		b.world = Compose(p, b.LocalTransform())
		return
	}

	wx, wy := p.Apply(b.X, b.Y)

	// The parent basis carries the skeleton scale; divide it back out unless
	// an axis is collapsed, in which case the final pass zeroes it anyway.
	dx, dy := sx, sy
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}

	var w Affine
	switch b.Data.TransformMode {
	case TransformOnlyTranslation:
		w = b.LocalTransform()

	case TransformNoRotationOrReflection:
		// Keep the parent's scale along its X axis and its area, drop its
		// rotation and any reflection.
		pa, pb := p[0], p[1]
		var pc, pd, prx float64
		s := pa*pa + pb*pb
		if s > 0.0001 {
			s = math.Abs(p.Determinant()) / s
			pa /= dx
			pb /= dy
			pc = -pb * s
			pd = pa * s
			prx = math.Atan2(pb, pa) * radDeg
		} else {
			pa, pb = 0, 0
			pc, pd = -p[2], p[3]
			prx = 90 - math.Atan2(p[3], p[2])*radDeg
		}
		local := localTransform(0, 0, b.Rotation-prx, b.ScaleX, b.ScaleY, b.ShearX, b.ShearY)
		w = Compose(Affine{pa, pb, pc, pd, 0, 0}, local)

	case TransformNoScale, TransformNoScaleOrReflection:
		// Rotate the bone's X axis by the parent basis, then normalize so
		// the parent's scale is discarded and only its rotation remains.
		cos, sin := cosDeg(b.Rotation), sinDeg(b.Rotation)
		za := (p[0]*cos + p[2]*sin) / dx
		zc := (p[1]*cos + p[3]*sin) / dy
		s := math.Sqrt(za*za + zc*zc)
		if s > 0.00001 {
			s = 1 / s
		}
		za *= s
		zc *= s
		s = math.Sqrt(za*za + zc*zc)
		if b.Data.TransformMode == TransformNoScale &&
			(p.Determinant() < 0) != ((sx < 0) != (sy < 0)) {
			s = -s
		}
		r := math.Pi/2 + math.Atan2(zc, za)
		zb := math.Cos(r) * s
		zd := math.Sin(r) * s
		local := localTransform(0, 0, 0, b.ScaleX, b.ScaleY, b.ShearX, b.ShearY)
		w = Compose(Affine{za, zc, zb, zd, 0, 0}, local)
	}

	w[0] *= sx
	w[2] *= sx
	w[1] *= sy
	w[3] *= sy
	w[4], w[5] = wx, wy
	b.world = w
}

// World returns the world matrix computed by the last UpdateWorld.
func (b *Bone) World() Affine {
	return b.world
}

// WorldX returns the world X position of the bone origin.
func (b *Bone) WorldX() float64 { return b.world[4] }

// WorldY returns the world Y position of the bone origin.
func (b *Bone) WorldY() float64 { return b.world[5] }

// WorldRotationX returns the world rotation of the bone's X axis in degrees.
func (b *Bone) WorldRotationX() float64 {
	return math.Atan2(b.world[1], b.world[0]) * radDeg
}

// WorldRotationY returns the world rotation of the bone's Y axis in degrees.
func (b *Bone) WorldRotationY() float64 {
	return math.Atan2(b.world[3], b.world[2]) * radDeg
}

// WorldScaleX returns the length of the bone's world X axis.
func (b *Bone) WorldScaleX() float64 {
	return math.Hypot(b.world[0], b.world[1])
}

// WorldScaleY returns the length of the bone's world Y axis.
func (b *Bone) WorldScaleY() float64 {
	return math.Hypot(b.world[2], b.world[3])
}

// LocalToWorld converts a point in bone space to world space.
func (b *Bone) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return b.world.Apply(lx, ly)
}

// WorldToLocal converts a world-space point to bone space. A bone with a
// degenerate world matrix (for example a zero scale) yields ErrSingularMatrix.
func (b *Bone) WorldToLocal(wx, wy float64) (lx, ly float64, err error) {
	inv, err := b.world.Invert()
	if err != nil {
		return 0, 0, fmt.Errorf("bone %q world to local: %w", b.Data.Name, err)
	}
	lx, ly = inv.Apply(wx, wy)
	return lx, ly, nil
}

// LocalToWorldRotation converts a rotation in bone space to world space.
// Both angles are in degrees.
func (b *Bone) LocalToWorldRotation(local float64) float64 {
	sin, cos := sinDeg(local), cosDeg(local)
	x, y := b.world.ApplyVector(cos, sin)
	return math.Atan2(y, x) * radDeg
}

// WorldToLocalRotation converts a world rotation to bone space. Both angles
// are in degrees.
func (b *Bone) WorldToLocalRotation(world float64) (float64, error) {
	inv, err := b.world.Invert()
	if err != nil {
		return 0, fmt.Errorf("bone %q world to local rotation: %w", b.Data.Name, err)
	}
	x, y := inv.ApplyVector(cosDeg(world), sinDeg(world))
	return math.Atan2(y, x) * radDeg, nil
}

// floatField returns a pointer to the local field animated by prop and the
// setup value for it.
func (b *Bone) floatField(prop Property) (*float64, float64) {
	d := b.Data
	switch prop {
	case PropertyRotate:
		return &b.Rotation, d.Rotation
	case PropertyTranslateX:
		return &b.X, d.X
	case PropertyTranslateY:
		return &b.Y, d.Y
	case PropertyScaleX:
		return &b.ScaleX, d.ScaleX
	case PropertyScaleY:
		return &b.ScaleY, d.ScaleY
	case PropertyShearX:
		return &b.ShearX, d.ShearX
	case PropertyShearY:
		return &b.ShearY, d.ShearY
	}
	return nil, 0
}
