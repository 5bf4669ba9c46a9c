package boxcsg

import (
	"testing"

	"github.com/soypat/boxcsg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const transformTol = 1e-12

func TestPivotTransformZeroRotationIsIdentity(t *testing.T) {
	got := pivotTransform(r3.Vec{X: 3, Y: -2, Z: 7}, r3.Vec{})
	if got != identity3d() {
		t.Errorf("zero rotation transform is not the exact identity: %+v", got)
	}
}

func TestRotationAboutAxes(t *testing.T) {
	for _, test := range []struct {
		name     string
		degrees  r3.Vec
		in, want r3.Vec
	}{
		{name: "x90", degrees: r3.Vec{X: 90}, in: r3.Vec{Y: 1}, want: r3.Vec{Z: 1}},
		{name: "y90", degrees: r3.Vec{Y: 90}, in: r3.Vec{Z: 1}, want: r3.Vec{X: 1}},
		{name: "z90", degrees: r3.Vec{Z: 90}, in: r3.Vec{X: 1}, want: r3.Vec{Y: 1}},
		{name: "z180", degrees: r3.Vec{Z: 180}, in: r3.Vec{X: 1, Y: 1}, want: r3.Vec{X: -1, Y: -1}},
	} {
		m := pivotTransform(r3.Vec{}, test.degrees)
		got := m.MulPosition(test.in)
		if !d3.EqualWithin(got, test.want, transformTol) {
			t.Errorf("%s: got %v. want %v", test.name, got, test.want)
		}
	}
}

// The rotation order is intrinsic X then Y then Z, so the local-to-world
// composition is Rz·Ry·Rx. Rotating (0,1,0) by (90,0,90) must first take it
// to (0,0,1) about X, where the Z rotation leaves it alone.
func TestRotationOrder(t *testing.T) {
	m := pivotTransform(r3.Vec{}, r3.Vec{X: 90, Z: 90})
	got := m.MulPosition(r3.Vec{Y: 1})
	want := r3.Vec{Z: 1}
	if !d3.EqualWithin(got, want, transformTol) {
		t.Errorf("got %v. want %v (Rz·Ry·Rx order violated)", got, want)
	}
}

func TestPivotIsFixedPoint(t *testing.T) {
	pivot := r3.Vec{X: 1.5, Y: -4, Z: 2}
	m := pivotTransform(pivot, r3.Vec{X: 33, Y: -21, Z: 170})
	got := m.MulPosition(pivot)
	if !d3.EqualWithin(got, pivot, 1e-9) {
		t.Errorf("pivot moved under its own rotation: got %v. want %v", got, pivot)
	}
}

func TestRotationPreservesDistances(t *testing.T) {
	pivot := r3.Vec{X: 2, Y: 2, Z: 2}
	m := pivotTransform(pivot, r3.Vec{X: 10, Y: 70, Z: -35})
	a := r3.Vec{X: 1, Y: 0, Z: 3}
	b := r3.Vec{X: -2, Y: 5, Z: 1}
	want := r3.Norm(r3.Sub(a, b))
	got := r3.Norm(r3.Sub(m.MulPosition(a), m.MulPosition(b)))
	if !EqualFloat64(got, want, 1e-9) {
		t.Errorf("distance not preserved: got %v. want %v", got, want)
	}
}

func TestMulComposition(t *testing.T) {
	// Applying T·R to a point must equal applying R then translating.
	r := rotate3dZ(DtoR(90))
	tr := translate3d(r3.Vec{X: 5})
	m := tr.Mul(r)
	got := m.MulPosition(r3.Vec{X: 1})
	want := r3.Vec{X: 5, Y: 1}
	if !d3.EqualWithin(got, want, transformTol) {
		t.Errorf("got %v. want %v", got, want)
	}
}
