package rig

import "github.com/tanema/gween/ease"

// CurveType selects how a keyframe interpolates toward the next keyframe.
type CurveType uint8

const (
	CurveLinear  CurveType = iota // straight-line interpolation
	CurveStepped                  // hold the keyframe value until the next key
	CurveBezier                   // cubic Bezier easing from (0,0) to (1,1)
	CurveEase                     // any gween easing function
)

// bezierSegments is the number of line segments a Bezier curve is flattened
// into. bezierSize is the number of stored floats (x, y per interior point).
const (
	bezierSegments = 10
	bezierSize     = (bezierSegments - 1) * 2
)

// Curve maps linear progress in [0, 1] between two keyframes to eased
// progress. The zero value is linear. Curves are immutable and safe to share.
type Curve struct {
	Type   CurveType
	bezier *[bezierSize]float64
	ease   ease.TweenFunc
}

var (
	// LinearCurve interpolates at constant speed.
	LinearCurve = Curve{Type: CurveLinear}
	// SteppedCurve holds the left keyframe's value.
	SteppedCurve = Curve{Type: CurveStepped}
)

// BezierCurve returns a curve through (0,0), (cx1,cy1), (cx2,cy2), (1,1).
// The curve is flattened into line segments by forward differencing once;
// sampling walks the segments instead of solving the cubic.
func BezierCurve(cx1, cy1, cx2, cy2 float64) Curve {
	var pts [bezierSize]float64

	tmpx := (-cx1*2 + cx2) * 0.03
	tmpy := (-cy1*2 + cy2) * 0.03
	dddfx := ((cx1-cx2)*3 + 1) * 0.006
	dddfy := ((cy1-cy2)*3 + 1) * 0.006
	ddfx := tmpx*2 + dddfx
	ddfy := tmpy*2 + dddfy
	dfx := cx1*0.3 + tmpx + dddfx*0.16666667
	dfy := cy1*0.3 + tmpy + dddfy*0.16666667

	x, y := dfx, dfy
	for i := 0; i < bezierSize; i += 2 {
		pts[i] = x
		pts[i+1] = y
		dfx += ddfx
		dfy += ddfy
		ddfx += dddfx
		ddfy += dddfy
		x += dfx
		y += dfy
	}
	return Curve{Type: CurveBezier, bezier: &pts}
}

// EaseCurve wraps a gween easing function such as ease.OutCubic.
func EaseCurve(fn ease.TweenFunc) Curve {
	if fn == nil {
		return LinearCurve
	}
	return Curve{Type: CurveEase, ease: fn}
}

// Percent returns the eased progress for linear progress p. p is clamped to
// [0, 1].
func (c Curve) Percent(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p > 1 {
		p = 1
	}
	switch c.Type {
	case CurveStepped:
		return 0
	case CurveBezier:
		return c.bezierPercent(p)
	case CurveEase:
		return float64(c.ease(float32(p), 0, 1, 1))
	default:
		return p
	}
}

func (c Curve) bezierPercent(p float64) float64 {
	pts := c.bezier
	var x float64
	i := 0
	for ; i < bezierSize; i += 2 {
		x = pts[i]
		if x >= p {
			var prevX, prevY float64
			if i > 0 {
				prevX, prevY = pts[i-2], pts[i-1]
			}
			return prevY + (pts[i+1]-prevY)*(p-prevX)/(x-prevX)
		}
	}
	// Last segment runs from the final interior point to (1, 1).
	y := pts[i-1]
	return y + (1-y)*(p-x)/(1-x)
}
