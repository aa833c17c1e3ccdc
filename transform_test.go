package rig

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !scalar.EqualWithinAbs(got, want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Affine) {
	t.Helper()
	for i := range got {
		if !scalar.EqualWithinAbs(got[i], want[i], epsilon) {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- localTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	got := localTransform(0, 0, 0, 1, 1, 0, 0)
	assertMatrix(t, "identity", got, Affine{1, 0, 0, 1, 0, 0})
}

func TestLocalTransformTranslation(t *testing.T) {
	got := localTransform(10, 20, 0, 1, 1, 0, 0)
	assertMatrix(t, "translation", got, Affine{1, 0, 0, 1, 10, 20})
}

func TestLocalTransformScale(t *testing.T) {
	got := localTransform(0, 0, 0, 2, 3, 0, 0)
	assertMatrix(t, "scale", got, Affine{2, 0, 0, 3, 0, 0})
}

func TestLocalTransformRotation90(t *testing.T) {
	got := localTransform(0, 0, 90, 1, 1, 0, 0)
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", got, Affine{0, 1, -1, 0, 0, 0})
}

func TestLocalTransformShearX(t *testing.T) {
	got := localTransform(0, 0, 0, 1, 1, 45, 0)
	// Shearing X by 45° tilts only the X axis.
	s := math.Sqrt2 / 2
	assertMatrix(t, "shearX", got, Affine{s, s, 0, 1, 0, 0})
}

func TestLocalTransformNegativeScaleMirrors(t *testing.T) {
	got := localTransform(0, 0, 0, -1, 1, 0, 0)
	assertMatrix(t, "mirror", got, Affine{-1, 0, 0, 1, 0, 0})
	if got.Determinant() >= 0 {
		t.Errorf("mirrored determinant = %v, want negative", got.Determinant())
	}
}

func TestLocalTransformCombined(t *testing.T) {
	got := localTransform(50, 100, 90, 2, 2, 0, 0)
	// Scale(2,2) then Rotate(90°):
	// a = 0, b = 2, c = -2, d = 0, tx = 50, ty = 100
	assertMatrix(t, "combined", got, Affine{0, 2, -2, 0, 50, 100})
}

// --- Compose ---

func TestComposeIdentity(t *testing.T) {
	id := Identity()
	m := Affine{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", Compose(id, m), m)
	assertMatrix(t, "m*id", Compose(m, id), m)
}

func TestComposeTranslations(t *testing.T) {
	a := Affine{1, 0, 0, 1, 10, 20}
	b := Affine{1, 0, 0, 1, 5, 3}
	assertMatrix(t, "translations", Compose(a, b), Affine{1, 0, 0, 1, 15, 23})
}

func TestComposeParentRotationMovesChildOffset(t *testing.T) {
	parent := localTransform(0, 0, 90, 1, 1, 0, 0)
	child := localTransform(10, 0, 0, 1, 1, 0, 0)
	got := Compose(parent, child)
	assertNear(t, "tx", got[4], 0)
	assertNear(t, "ty", got[5], 10)
}

func TestComposeAssociativeNotCommutative(t *testing.T) {
	a := localTransform(3, -2, 30, 1.5, 0.5, 10, 0)
	b := localTransform(-7, 4, -60, 2, 1, 0, 5)
	c := localTransform(1, 1, 15, -1, 1, 0, 0)

	assertMatrix(t, "(ab)c = a(bc)", Compose(Compose(a, b), c), Compose(a, Compose(b, c)))

	ab, ba := Compose(a, b), Compose(b, a)
	same := true
	for i := range ab {
		if !scalar.EqualWithinAbs(ab[i], ba[i], epsilon) {
			same = false
		}
	}
	if same {
		t.Error("expected a*b != b*a for rotated, translated matrices")
	}
}

// --- Invert ---

func TestInvert(t *testing.T) {
	m := Affine{2, 0, 0, 3, 10, 20}
	inv, err := m.Invert()
	if err != nil {
		t.Fatal(err)
	}
	assertMatrix(t, "m*inv=id", Compose(m, inv), identityTransform)
	assertMatrix(t, "inv*m=id", Compose(inv, m), identityTransform)
}

func TestInvertRotated(t *testing.T) {
	m := localTransform(4, -9, 37, 1.25, 0.75, 5, -3)
	inv, err := m.Invert()
	if err != nil {
		t.Fatal(err)
	}
	x, y := m.Apply(3, 7)
	bx, by := inv.Apply(x, y)
	assertNear(t, "x", bx, 3)
	assertNear(t, "y", by, 7)
}

func TestInvertSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
	}{
		{"zero scale", Affine{0, 0, 0, 1, 5, 5}},
		{"collinear axes", Affine{1, 2, 2, 4, 0, 0}},
		{"all zero", Affine{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.m.Invert()
			if !errors.Is(err, ErrSingularMatrix) {
				t.Errorf("err = %v, want ErrSingularMatrix", err)
			}
		})
	}
}

// --- Apply / conversions ---

func TestApplyAndApplyVector(t *testing.T) {
	m := Affine{0, 1, -1, 0, 5, 6}
	x, y := m.Apply(1, 0)
	assertNear(t, "x", x, 5)
	assertNear(t, "y", y, 7)
	vx, vy := m.ApplyVector(1, 0)
	assertNear(t, "vx", vx, 0)
	assertNear(t, "vy", vy, 1)
	tx, ty := m.Translation()
	assertNear(t, "tx", tx, 5)
	assertNear(t, "ty", ty, 6)
}

func TestMat3ColumnMajor(t *testing.T) {
	m := Affine{1, 2, 3, 4, 5, 6}
	got := m.Mat3()
	// Column-major: element (row, col) is at col*3 + row.
	if got.At(0, 0) != 1 || got.At(1, 0) != 2 || got.At(0, 1) != 3 || got.At(1, 1) != 4 {
		t.Errorf("linear part = %v", got)
	}
	if got.At(0, 2) != 5 || got.At(1, 2) != 6 || got.At(2, 2) != 1 {
		t.Errorf("translation part = %v", got)
	}
	v := got.Mul3x1([3]float64{7, 8, 1})
	x, y := m.Apply(7, 8)
	assertNear(t, "x", v[0], x)
	assertNear(t, "y", v[1], y)
}

func TestIsFinite(t *testing.T) {
	if !identityTransform.IsFinite() {
		t.Error("identity should be finite")
	}
	if (Affine{math.NaN(), 0, 0, 1, 0, 0}).IsFinite() {
		t.Error("NaN matrix reported finite")
	}
	if (Affine{1, 0, 0, 1, math.Inf(1), 0}).IsFinite() {
		t.Error("Inf matrix reported finite")
	}
}

func TestComposeZeroAlloc(t *testing.T) {
	a := localTransform(1, 2, 30, 1, 1, 0, 0)
	b := localTransform(3, 4, 60, 2, 2, 0, 0)
	var sink Affine
	result := testing.AllocsPerRun(100, func() {
		sink = Compose(a, b)
	})
	_ = sink
	if result > 0 {
		t.Errorf("Compose allocated %f times per run, want 0", result)
	}
}
