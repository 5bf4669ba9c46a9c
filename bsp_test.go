package boxcsg

import (
	"math"
	"testing"

	"github.com/soypat/boxcsg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// polygonArea computes the area of a planar polygon from the cross product
// sum of its vertex fan.
func polygonArea(q Polygon) float64 {
	var sum r3.Vec
	for i := 1; i < len(q.V)-1; i++ {
		e1 := r3.Sub(q.V[i], q.V[0])
		e2 := r3.Sub(q.V[i+1], q.V[0])
		sum = r3.Add(sum, r3.Cross(e1, e2))
	}
	return 0.5 * r3.Norm(sum)
}

func TestSplitPolygonPreservesArea(t *testing.T) {
	quad := newPolygon([]r3.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	})
	plane := Plane{N: r3.Vec{X: 1}, D: 1} // x = 1
	var cf, cb, front, back []Polygon
	splitPolygon(plane, quad, &cf, &cb, &front, &back)
	if len(cf) != 0 || len(cb) != 0 {
		t.Fatal("spanning quad classified as coplanar")
	}
	if len(front) != 1 || len(back) != 1 {
		t.Fatalf("got %d front, %d back fragments. want 1 and 1", len(front), len(back))
	}
	gotArea := polygonArea(front[0]) + polygonArea(back[0])
	if !EqualFloat64(gotArea, polygonArea(quad), 1e-9) {
		t.Errorf("split area got %v. want %v", gotArea, polygonArea(quad))
	}
	// Fragments keep the original plane orientation.
	for _, q := range append(front, back...) {
		if !d3.EqualWithin(q.Plane.N, quad.Plane.N, 1e-12) {
			t.Errorf("fragment plane normal got %v. want %v", q.Plane.N, quad.Plane.N)
		}
	}
}

func TestSplitPolygonCoplanarTieBreak(t *testing.T) {
	quad := newPolygon([]r3.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}) // normal +Z, on plane z=0
	plane := Plane{N: r3.Vec{Z: 1}, D: 0}
	var cf, cb, front, back []Polygon
	splitPolygon(plane, quad, &cf, &cb, &front, &back)
	if len(cf) != 1 || len(cb) != 0 || len(front) != 0 || len(back) != 0 {
		t.Errorf("same-direction coplanar polygon not assigned coplanar-front: cf=%d cb=%d f=%d b=%d",
			len(cf), len(cb), len(front), len(back))
	}
	cf, cb = nil, nil
	splitPolygon(plane.flip(), quad, &cf, &cb, &front, &back)
	if len(cf) != 0 || len(cb) != 1 {
		t.Errorf("opposite-direction coplanar polygon not assigned coplanar-back: cf=%d cb=%d", len(cf), len(cb))
	}
}

func TestSplitPolygonNearCoplanarWithinEpsilon(t *testing.T) {
	// A polygon within epsilon of the splitting plane must be treated as
	// coplanar, not split into slivers.
	quad := newPolygon([]r3.Vec{
		{X: 0, Y: 0, Z: epsilon / 2}, {X: 1, Y: 0, Z: -epsilon / 2},
		{X: 1, Y: 1, Z: epsilon / 2}, {X: 0, Y: 1, Z: -epsilon / 2},
	})
	plane := Plane{N: r3.Vec{Z: 1}, D: 0}
	var cf, cb, front, back []Polygon
	splitPolygon(plane, quad, &cf, &cb, &front, &back)
	if len(front) != 0 || len(back) != 0 {
		t.Errorf("near-coplanar polygon was split: f=%d b=%d", len(front), len(back))
	}
	if len(cf) != 1 {
		t.Errorf("near-coplanar polygon not coplanar-front: cf=%d cb=%d", len(cf), len(cb))
	}
}

func mustBoxSolid(t testing.TB, b Box) Solid {
	t.Helper()
	s, err := BoxSolid(b)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestUnionDisjoint(t *testing.T) {
	a := mustBoxSolid(t, Box{From: r3.Vec{}, To: d3.Elem(1)})
	b := mustBoxSolid(t, Box{From: d3.Elem(5), To: d3.Elem(6)})
	u := Union(a, b)
	if len(u.Polygons) != 12 {
		t.Errorf("union of disjoint boxes got %d polygons. want 12 untouched faces", len(u.Polygons))
	}
	got := d3.Box(u.Bounds())
	want := d3.Box{Min: r3.Vec{}, Max: d3.Elem(6)}
	if !got.Equals(want, 1e-12) {
		t.Errorf("union bounds got %+v. want %+v", got, want)
	}
}

func TestIntersectDisjointIsEmpty(t *testing.T) {
	a := mustBoxSolid(t, Box{From: r3.Vec{}, To: d3.Elem(1)})
	b := mustBoxSolid(t, Box{From: d3.Elem(5), To: d3.Elem(6)})
	i := Intersect(a, b)
	if len(i.Polygons) != 0 {
		t.Errorf("intersection of disjoint boxes got %d polygons. want 0", len(i.Polygons))
	}
}

func TestIntersectOverlapBounds(t *testing.T) {
	a := mustBoxSolid(t, Box{From: r3.Vec{}, To: d3.Elem(2)})
	b := mustBoxSolid(t, Box{From: d3.Elem(1), To: d3.Elem(3)})
	i := Intersect(a, b)
	got := d3.Box(i.Bounds())
	want := d3.Box{Min: d3.Elem(1), Max: d3.Elem(2)}
	if !got.Equals(want, 1e-9) {
		t.Errorf("intersection bounds got %+v. want %+v", got, want)
	}
}

func TestDifferenceDisjointKeepsMinuend(t *testing.T) {
	a := mustBoxSolid(t, Box{From: r3.Vec{}, To: d3.Elem(2)})
	b := mustBoxSolid(t, Box{From: d3.Elem(5), To: d3.Elem(6)})
	d := Difference(a, b)
	got := d3.Box(d.Bounds())
	want := d3.Box{Min: r3.Vec{}, Max: d3.Elem(2)}
	if !got.Equals(want, 1e-12) {
		t.Errorf("difference bounds got %+v. want %+v", got, want)
	}
}

func TestSubtractThenIntersectLeavesNothing(t *testing.T) {
	// Subtracting b from a and intersecting the result with b again must
	// enclose no volume, also when the first result carries split faces
	// from the clipping.
	for _, tc := range []struct {
		name string
		a, b Box
	}{
		{
			name: "separated",
			a:    Box{From: r3.Vec{}, To: d3.Elem(2)},
			b:    Box{From: d3.Elem(5), To: d3.Elem(7)},
		},
		{
			name: "overlapping",
			a:    Box{From: r3.Vec{}, To: d3.Elem(2)},
			b:    Box{From: d3.Elem(1), To: d3.Elem(3)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sa := mustBoxSolid(t, tc.a)
			sb := mustBoxSolid(t, tc.b)
			carved := Difference(sa, sb)
			cells, err := Voxelize(Intersect(carved, sb), 0.5)
			if err != nil {
				t.Fatal(err)
			}
			if len(cells) != 0 {
				t.Errorf("carved solid still overlaps the removed volume: %d cells", len(cells))
			}
		})
	}
}

func TestCombinerDoesNotMutateInputs(t *testing.T) {
	a := mustBoxSolid(t, Box{From: r3.Vec{}, To: d3.Elem(2)})
	b := mustBoxSolid(t, Box{From: d3.Elem(1), To: d3.Elem(3)})
	snapshot := func(s Solid) []r3.Vec {
		var out []r3.Vec
		for _, q := range s.Polygons {
			out = append(out, q.V...)
		}
		return out
	}
	wantA, wantB := snapshot(a), snapshot(b)
	Union(a, b)
	Difference(a, b)
	Intersect(a, b)
	for i, v := range snapshot(a) {
		if v != wantA[i] {
			t.Fatalf("input solid a mutated at vertex %d", i)
		}
	}
	for i, v := range snapshot(b) {
		if v != wantB[i] {
			t.Fatalf("input solid b mutated at vertex %d", i)
		}
	}
}

func TestResultPolygonsOnUnitPlanes(t *testing.T) {
	a := mustBoxSolid(t, Box{From: r3.Vec{}, To: d3.Elem(2)})
	b := mustBoxSolid(t, Box{From: d3.Elem(1), To: d3.Elem(3)})
	d := Difference(a, b)
	for i, q := range d.Polygons {
		if len(q.V) < 3 {
			t.Fatalf("result polygon %d has %d vertices", i, len(q.V))
		}
		if !EqualFloat64(r3.Norm(q.Plane.N), 1, 1e-9) {
			t.Errorf("result polygon %d normal not unit: %v", i, q.Plane.N)
		}
		for j, v := range q.V {
			if off := math.Abs(r3.Dot(q.Plane.N, v) - q.Plane.D); off > 1e-9 {
				t.Errorf("result polygon %d vertex %d off plane by %g", i, j, off)
			}
		}
	}
}
