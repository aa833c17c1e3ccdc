package rig

import (
	"testing"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestCurveLinear(t *testing.T) {
	var c Curve
	for _, p := range []float64{0, 0.25, 0.5, 1} {
		assertNear(t, "linear", c.Percent(p), p)
	}
}

func TestCurveClamp(t *testing.T) {
	c := BezierCurve(0.25, 0.1, 0.25, 1)
	assertNear(t, "below", c.Percent(-0.5), 0)
	assertNear(t, "above", c.Percent(1.5), 1)
	assertNear(t, "linear above", LinearCurve.Percent(2), 1)
}

func TestCurveStepped(t *testing.T) {
	for _, p := range []float64{0, 0.5, 0.999, 1} {
		if got := SteppedCurve.Percent(p); got != 0 {
			t.Errorf("stepped Percent(%v) = %v, want 0", p, got)
		}
	}
}

func TestBezierEndpoints(t *testing.T) {
	c := BezierCurve(0.42, 0, 0.58, 1)
	assertNear(t, "p(0)", c.Percent(0), 0)
	assertNear(t, "p(1)", c.Percent(1), 1)
	// Symmetric ease-in-out passes through the midpoint.
	if got := c.Percent(0.5); !scalar.EqualWithinAbs(got, 0.5, 1e-3) {
		t.Errorf("p(0.5) = %v, want ~0.5", got)
	}
}

func TestBezierStraightLine(t *testing.T) {
	c := BezierCurve(0, 0, 1, 1)
	for _, p := range []float64{0.1, 0.33, 0.5, 0.77, 0.95} {
		if got := c.Percent(p); !scalar.EqualWithinAbs(got, p, 1e-6) {
			t.Errorf("Percent(%v) = %v, want %v", p, got, p)
		}
	}
}

func TestBezierOvershootStaysFinite(t *testing.T) {
	c := BezierCurve(0.68, -0.2, 0.27, 1.2)
	var undershoot bool
	for i := 0; i <= 100; i++ {
		p := c.Percent(float64(i) / 100)
		if !isFinite(p) {
			t.Fatalf("Percent(%v) = %v", float64(i)/100, p)
		}
		if p < 0 {
			undershoot = true
		}
	}
	if !undershoot {
		t.Error("back-ease curve should dip below 0 near the start")
	}
	assertNear(t, "end", c.Percent(1), 1)
}

func TestEaseCurve(t *testing.T) {
	c := EaseCurve(ease.InQuad)
	if c.Type != CurveEase {
		t.Fatalf("Type = %v, want CurveEase", c.Type)
	}
	if got := c.Percent(0.5); !scalar.EqualWithinAbs(got, 0.25, 1e-6) {
		t.Errorf("InQuad(0.5) = %v, want 0.25", got)
	}
	if got := c.Percent(1); !scalar.EqualWithinAbs(got, 1, 1e-6) {
		t.Errorf("InQuad(1) = %v, want 1", got)
	}
	if EaseCurve(nil).Type != CurveLinear {
		t.Error("nil ease should fall back to linear")
	}
}

func TestCurvePercentZeroAlloc(t *testing.T) {
	c := BezierCurve(0.25, 0.1, 0.25, 1)
	var sink float64
	result := testing.AllocsPerRun(100, func() {
		sink = c.Percent(0.37)
	})
	_ = sink
	if result > 0 {
		t.Errorf("Percent allocated %f times per run, want 0", result)
	}
}

// cubic evaluates one coordinate of a Bezier from 0 through c1, c2 to 1.
func cubic(c1, c2, t float64) float64 {
	u := 1 - t
	return 3*u*u*t*c1 + 3*u*t*t*c2 + t*t*t
}

func TestBezierWithinSegmentTolerance(t *testing.T) {
	const tolerance = 1e-2
	cx1, cy1, cx2, cy2 := 0.42, 0.0, 0.58, 1.0
	c := BezierCurve(cx1, cy1, cx2, cy2)
	for i := 0; i <= 40; i++ {
		p := float64(i) / 40
		lo, hi := 0.0, 1.0
		for j := 0; j < 60; j++ {
			mid := (lo + hi) / 2
			if cubic(cx1, cx2, mid) < p {
				lo = mid
			} else {
				hi = mid
			}
		}
		want := cubic(cy1, cy2, (lo+hi)/2)
		if got := c.Percent(p); !scalar.EqualWithinAbs(got, want, tolerance) {
			t.Errorf("Percent(%v) = %v, want %v within %v", p, got, want, tolerance)
		}
	}
}
