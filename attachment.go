package rig

import "math"

// Attachment is geometry bound to a slot and placed by the slot's bone. A
// single flat struct is used for every attachment type; Type selects which
// fields are meaningful.
//
// Attachments may be shared by any number of skeletons. Region corners are
// derived from the exported fields on every call, so edits made before the
// attachment is shared take effect everywhere.
type Attachment struct {
	Name string
	Type AttachmentType

	// Point and Region: offset from the bone origin and rotation in degrees.
	X, Y     float64
	Rotation float64

	// Region only.
	ScaleX, ScaleY float64
	Width, Height  float64

	// BoundingBox only: polygon in bone space as x, y pairs.
	Vertices []float64

	// Color is the editor/debug tint of the attachment.
	Color Color
}

// NewPointAttachment creates a point attachment at (x, y) in bone space with
// the given rotation in degrees.
func NewPointAttachment(name string, x, y, rotation float64) *Attachment {
	return &Attachment{
		Name:     name,
		Type:     AttachmentPoint,
		X:        x,
		Y:        y,
		Rotation: rotation,
		Color:    Color{0.38, 0.94, 0, 1},
	}
}

// NewRegionAttachment creates a width x height quad centered on (x, y) in bone
// space, rotated by rotation degrees and scaled by scaleX, scaleY.
func NewRegionAttachment(name string, x, y, rotation, scaleX, scaleY, width, height float64) *Attachment {
	a := &Attachment{
		Name:     name,
		Type:     AttachmentRegion,
		X:        x,
		Y:        y,
		Rotation: rotation,
		ScaleX:   scaleX,
		ScaleY:   scaleY,
		Width:    width,
		Height:   height,
		Color:    ColorWhite,
	}
	return a
}

// NewBoundingBoxAttachment creates a polygon attachment from x, y pairs in
// bone space. The slice is copied.
func NewBoundingBoxAttachment(name string, vertices []float64) *Attachment {
	return &Attachment{
		Name:     name,
		Type:     AttachmentBoundingBox,
		Vertices: append([]float64(nil), vertices...),
		Color:    Color{0.38, 0.94, 0, 1},
	}
}

// corners returns the region quad in bone space: BL, UL, UR, BR.
func (a *Attachment) corners() [8]float64 {
	x1, y1 := -a.Width/2*a.ScaleX, -a.Height/2*a.ScaleY
	x2, y2 := a.Width/2*a.ScaleX, a.Height/2*a.ScaleY
	sin, cos := math.Sincos(a.Rotation * degRad)
	// Each corner is rotated then translated by (X, Y).
	return [8]float64{
		x1*cos - y1*sin + a.X, x1*sin + y1*cos + a.Y,
		x1*cos - y2*sin + a.X, x1*sin + y2*cos + a.Y,
		x2*cos - y2*sin + a.X, x2*sin + y2*cos + a.Y,
		x2*cos - y1*sin + a.X, x2*sin + y1*cos + a.Y,
	}
}

// ComputeWorldPosition returns the attachment origin in world space. The
// bone's world transform must be current.
func (a *Attachment) ComputeWorldPosition(bone *Bone) Vec2 {
	x, y := bone.world.Apply(a.X, a.Y)
	return Vec2{X: x, Y: y}
}

// ComputeWorldRotation returns the attachment's world rotation in radians.
func (a *Attachment) ComputeWorldRotation(bone *Bone) float64 {
	sin, cos := math.Sincos(a.Rotation * degRad)
	x, y := bone.world.ApplyVector(cos, sin)
	return math.Atan2(y, x)
}

// VertexCount returns the number of world vertices ComputeWorldVertices
// produces.
func (a *Attachment) VertexCount() int {
	switch a.Type {
	case AttachmentPoint:
		return 1
	case AttachmentRegion:
		return 4
	case AttachmentBoundingBox:
		return len(a.Vertices) / 2
	}
	return 0
}

// ComputeWorldVertices appends the attachment's world vertices to dst as
// x, y pairs and returns the extended slice.
func (a *Attachment) ComputeWorldVertices(bone *Bone, dst []float64) []float64 {
	m := bone.world
	switch a.Type {
	case AttachmentPoint:
		x, y := m.Apply(a.X, a.Y)
		dst = append(dst, x, y)
	case AttachmentRegion:
		c := a.corners()
		for i := 0; i < len(c); i += 2 {
			x, y := m.Apply(c[i], c[i+1])
			dst = append(dst, x, y)
		}
	case AttachmentBoundingBox:
		for i := 0; i+1 < len(a.Vertices); i += 2 {
			x, y := m.Apply(a.Vertices[i], a.Vertices[i+1])
			dst = append(dst, x, y)
		}
	}
	return dst
}
