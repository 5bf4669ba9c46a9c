package boxcsg

import (
	"fmt"

	"github.com/soypat/boxcsg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is an oriented plane in Hessian normal form: points p on the plane
// satisfy Dot(N, p) == D. N is a unit vector.
type Plane struct {
	N r3.Vec
	D float64
}

// planeFromPoints derives the plane through three points with the normal
// following the right-hand rule of the winding a->b->c.
func planeFromPoints(a, b, c r3.Vec) Plane {
	n := r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
	return Plane{N: n, D: r3.Dot(n, a)}
}

// flip returns the plane with reversed orientation.
func (p Plane) flip() Plane {
	return Plane{N: r3.Scale(-1, p.N), D: -p.D}
}

// Polygon is a planar convex polygon of at least 3 vertices wound
// counter-clockwise around its outward normal. Polygons are immutable once
// constructed; operations that change orientation allocate new vertex
// storage.
type Polygon struct {
	V     []r3.Vec
	Plane Plane
}

// newPolygon derives the polygon plane from the first three vertices.
// Vertices must already be coplanar.
func newPolygon(v []r3.Vec) Polygon {
	if len(v) < 3 {
		panic("polygon requires at least 3 vertices")
	}
	return Polygon{V: v, Plane: planeFromPoints(v[0], v[1], v[2])}
}

// flip returns the polygon with reversed winding and orientation.
func (q Polygon) flip() Polygon {
	v := make([]r3.Vec, len(q.V))
	for i := range v {
		v[i] = q.V[len(q.V)-1-i]
	}
	return Polygon{V: v, Plane: q.Plane.flip()}
}

// Solid is a boundary representation: a set of polygons forming a closed,
// outward-oriented surface. A Solid with no polygons encloses no volume.
type Solid struct {
	Polygons []Polygon
}

// Bounds returns the axis-aligned bounding box of all solid vertices.
// The zero box is returned for an empty solid.
func (s Solid) Bounds() r3.Box {
	var set d3.Set
	for _, q := range s.Polygons {
		set = append(set, q.V...)
	}
	if len(set) == 0 {
		return r3.Box{}
	}
	return r3.Box{Min: set.Min(), Max: set.Max()}
}

// boxFaces indexes the 8 box corners per face in outward winding.
// Corner i has bit 0 selecting +X, bit 1 selecting +Y, bit 2 selecting +Z.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// BoxSolid converts a box to a watertight hexahedral solid. The box extents
// must be positive and finite on every axis or ErrDegenerateGeometry is
// returned. When the box carries a rotation, every vertex is transformed and
// the face planes are recomputed from the transformed vertices; planes are
// never carried over from the axis-aligned state.
func BoxSolid(b Box) (Solid, error) {
	size := r3.Sub(b.To, b.From)
	if !d3.Finite(size) || d3.LTEZero(size) {
		return Solid{}, fmt.Errorf("%w: box size %v", ErrDegenerateGeometry, size)
	}
	center := r3.Add(b.From, r3.Scale(0.5, size))
	h := r3.Scale(0.5, size)
	// Shared corner vertices keep edges bit-identical between adjacent
	// faces, which the watertightness audit relies on.
	var corners [8]r3.Vec
	for i := range corners {
		v := r3.Vec{X: -h.X, Y: -h.Y, Z: -h.Z}
		if i&1 != 0 {
			v.X = h.X
		}
		if i&2 != 0 {
			v.Y = h.Y
		}
		if i&4 != 0 {
			v.Z = h.Z
		}
		corners[i] = r3.Add(center, v)
	}
	if b.Rotation != (r3.Vec{}) {
		m := pivotTransform(b.Origin, b.Rotation)
		for i := range corners {
			corners[i] = m.MulPosition(corners[i])
		}
	}
	polygons := make([]Polygon, 0, len(boxFaces))
	for _, f := range boxFaces {
		polygons = append(polygons, newPolygon([]r3.Vec{
			corners[f[0]], corners[f[1]], corners[f[2]], corners[f[3]],
		}))
	}
	return Solid{Polygons: polygons}, nil
}

// edge is a directed polygon edge keyed by its exact endpoint coordinates.
type edge struct {
	ax, ay, az float64
	bx, by, bz float64
}

func (e edge) reverse() edge {
	return edge{e.bx, e.by, e.bz, e.ax, e.ay, e.az}
}

// Watertight audits the solid's edge pairing: in a closed outward-oriented
// boundary every directed edge appears exactly once and its reverse appears
// exactly once on the neighboring polygon. Vertices are compared exactly, so
// the audit is meaningful for solids built from shared vertices, such as
// BoxSolid output; BSP combination results may introduce T-vertices and are
// not expected to pass.
func (s Solid) Watertight() bool {
	if len(s.Polygons) == 0 {
		return false
	}
	count := make(map[edge]int)
	for _, q := range s.Polygons {
		if len(q.V) < 3 {
			return false
		}
		for i, a := range q.V {
			b := q.V[(i+1)%len(q.V)]
			if !d3.Finite(a) || !d3.Finite(b) {
				return false
			}
			count[edge{a.X, a.Y, a.Z, b.X, b.Y, b.Z}]++
		}
	}
	for e, n := range count {
		if n != 1 || count[e.reverse()] != 1 {
			return false
		}
	}
	return true
}
