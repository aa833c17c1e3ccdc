package rig

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty].
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// The first column (a, b) is the transformed X axis, the second (c, d) the
// transformed Y axis.
type Affine [6]float64

// identityTransform is the identity affine matrix.
var identityTransform = Affine{1, 0, 0, 1, 0, 0}

// singularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const singularEpsilon = 1e-12

// Identity returns the identity matrix.
func Identity() Affine {
	return identityTransform
}

// Compose returns parent * local: the local matrix expressed in the parent's
// space. Composition is associative but not commutative.
func Compose(parent, local Affine) Affine {
	p, c := parent, local
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Determinant returns ad - cb.
func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Invert returns the inverse of m. A degenerate matrix is reported with
// ErrSingularMatrix instead of being replaced by the identity.
func (m Affine) Invert() (Affine, error) {
	det := m.Determinant()
	if det > -singularEpsilon && det < singularEpsilon {
		return Affine{}, fmt.Errorf("invert %v: %w", m, ErrSingularMatrix)
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, nil
}

// Apply transforms the point (x, y) by m.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVector transforms the direction (x, y) by the linear part of m,
// ignoring translation.
func (m Affine) ApplyVector(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// Translation returns (tx, ty).
func (m Affine) Translation() (float64, float64) {
	return m[4], m[5]
}

// Mat3 returns m as a column-major 3x3 matrix for upload to GPU consumers.
func (m Affine) Mat3() mgl64.Mat3 {
	return mgl64.Mat3{
		m[0], m[1], 0,
		m[2], m[3], 0,
		m[4], m[5], 1,
	}
}

// IsFinite reports whether every element of m is a finite number.
func (m Affine) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// localTransform builds the matrix for a local transform. Rotation and shear
// are in degrees. Composition order:
//
//	Scale -> Shear -> Rotate -> Translate(x, y)
func localTransform(x, y, rotation, scaleX, scaleY, shearX, shearY float64) Affine {
	rx := (rotation + shearX) * degRad
	ry := (rotation + 90 + shearY) * degRad
	sinX, cosX := math.Sincos(rx)
	sinY, cosY := math.Sincos(ry)
	return Affine{
		cosX * scaleX, sinX * scaleX,
		cosY * scaleY, sinY * scaleY,
		x, y,
	}
}
