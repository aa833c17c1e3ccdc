// Package debugdraw renders rig skeletons with [Ebitengine] vector
// primitives: bones as lines, joints as dots and attachment outlines.
//
// It is meant for tooling and debugging, not for drawing textured
// characters.
//
// [Ebitengine]: https://ebitengine.org
package debugdraw

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/rig"
)

// Options controls DrawSkeleton. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// View maps skeleton world space to screen space.
	View ebiten.GeoM

	BoneColor   color.Color
	BoneWidth   float32
	JointColor  color.Color
	JointRadius float32

	// Attachments outlines regions and bounding boxes and marks points.
	Attachments bool
	BoxColor    color.Color
}

// DefaultOptions returns options with an identity view and the usual editor
// colors.
func DefaultOptions() Options {
	return Options{
		BoneColor:   color.RGBA{0xff, 0xb0, 0x00, 0xff},
		BoneWidth:   2,
		JointColor:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		JointRadius: 3,
		Attachments: true,
		BoxColor:    color.RGBA{0x60, 0xf0, 0x00, 0xff},
	}
}

// BoneGeoM converts a bone's world matrix into an ebiten.GeoM, for drawing
// images in bone space.
func BoneGeoM(b *rig.Bone) ebiten.GeoM {
	w := b.World()
	var m ebiten.GeoM
	m.SetElement(0, 0, w[0])
	m.SetElement(1, 0, w[1])
	m.SetElement(0, 1, w[2])
	m.SetElement(1, 1, w[3])
	m.SetElement(0, 2, w[4])
	m.SetElement(1, 2, w[5])
	return m
}

// Segment is one bone drawn from its origin to its tip in world space.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// Segments appends a segment for every bone to dst. Zero-length bones yield
// a degenerate segment at the bone origin.
func Segments(sk *rig.Skeleton, dst []Segment) []Segment {
	bones := sk.Bones()
	for i := range bones {
		b := &bones[i]
		x0, y0 := b.World().Translation()
		x1, y1 := b.LocalToWorld(b.Data.Length, 0)
		dst = append(dst, Segment{X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	return dst
}

// Drawer draws skeletons, reusing its scratch buffers between calls.
type Drawer struct {
	Options Options

	segs  []Segment
	verts []float64
}

// NewDrawer creates a Drawer using opts.
func NewDrawer(opts Options) *Drawer {
	return &Drawer{Options: opts}
}

// Draw renders sk onto dst. World transforms must be current.
func (d *Drawer) Draw(dst *ebiten.Image, sk *rig.Skeleton) {
	o := &d.Options
	if o.Attachments {
		for _, slot := range sk.DrawOrder() {
			a := slot.Attachment()
			if a == nil {
				continue
			}
			d.verts = a.ComputeWorldVertices(slot.Bone(), d.verts[:0])
			if a.Type == rig.AttachmentPoint {
				x, y := o.View.Apply(d.verts[0], d.verts[1])
				vector.FillCircle(dst, float32(x), float32(y), o.JointRadius, o.BoxColor, true)
				continue
			}
			d.outline(dst, d.verts)
		}
	}

	d.segs = Segments(sk, d.segs[:0])
	for _, s := range d.segs {
		x0, y0 := o.View.Apply(s.X0, s.Y0)
		x1, y1 := o.View.Apply(s.X1, s.Y1)
		if x0 != x1 || y0 != y1 {
			vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), o.BoneWidth, o.BoneColor, true)
		}
		vector.FillCircle(dst, float32(x0), float32(y0), o.JointRadius, o.JointColor, true)
	}
}

func (d *Drawer) outline(dst *ebiten.Image, verts []float64) {
	o := &d.Options
	n := len(verts) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x0, y0 := o.View.Apply(verts[i*2], verts[i*2+1])
		x1, y1 := o.View.Apply(verts[j*2], verts[j*2+1])
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 1, o.BoxColor, true)
	}
}
