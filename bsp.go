package boxcsg

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Boolean combination of solids by binary space partition clipping.
// Each solid is compiled into a BSP tree; clipping one tree's polygons
// against the other removes the fragments lying in the half-space the
// operation excludes. Inputs must be watertight or the output is
// unspecified; Combine enforces that precondition before calling in here.

const (
	sideCoplanar = 0
	sideFront    = 1
	sideBack     = 2
	sideSpanning = 3
)

// Union returns a solid bounding the volume inside either argument.
func Union(a, b Solid) Solid {
	na, nb := buildPair(a, b)
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	return Solid{Polygons: na.allPolygons()}
}

// Difference returns a solid bounding the volume inside a but not inside b.
func Difference(a, b Solid) Solid {
	na, nb := buildPair(a, b)
	na.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	na.invert()
	return Solid{Polygons: na.allPolygons()}
}

// Intersect returns a solid bounding the volume inside both arguments.
func Intersect(a, b Solid) Solid {
	na, nb := buildPair(a, b)
	na.invert()
	nb.clipTo(na)
	nb.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	na.build(nb.allPolygons())
	na.invert()
	return Solid{Polygons: na.allPolygons()}
}

// buildPair compiles both operand solids into BSP trees. Tree construction
// is independent per solid so the second tree is built on its own goroutine.
func buildPair(a, b Solid) (na, nb *bspNode) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		nb = newBSPNode(b.Polygons)
	}()
	na = newBSPNode(a.Polygons)
	wg.Wait()
	return na, nb
}

// bspNode is a node of a solid's BSP tree: a splitting plane, the polygons
// coplanar with it, and the subtrees in front of and behind it.
type bspNode struct {
	plane    *Plane
	front    *bspNode
	back     *bspNode
	polygons []Polygon
}

func newBSPNode(polygons []Polygon) *bspNode {
	n := &bspNode{}
	n.build(polygons)
	return n
}

// build inserts polygons into the subtree, splitting spanning polygons.
// The first polygon's plane seeds a fresh node's splitting plane.
func (n *bspNode) build(polygons []Polygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		p := polygons[0].Plane
		n.plane = &p
	}
	var front, back []Polygon
	for _, q := range polygons {
		splitPolygon(*n.plane, q, &n.polygons, &n.polygons, &front, &back)
	}
	if len(front) > 0 {
		if n.front == nil {
			n.front = &bspNode{}
		}
		n.front.build(front)
	}
	if len(back) > 0 {
		if n.back == nil {
			n.back = &bspNode{}
		}
		n.back.build(back)
	}
}

// invert converts the subtree into a representation of the complement solid.
func (n *bspNode) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flip()
	}
	if n.plane != nil {
		*n.plane = n.plane.flip()
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons returns the fragments of the argument polygons that lie
// outside the solid represented by this subtree. Fragments reaching a leaf
// with no back subtree are inside the solid and are discarded.
func (n *bspNode) clipPolygons(polygons []Polygon) []Polygon {
	if n.plane == nil {
		out := make([]Polygon, len(polygons))
		copy(out, polygons)
		return out
	}
	var front, back []Polygon
	for _, q := range polygons {
		splitPolygon(*n.plane, q, &front, &back, &front, &back)
	}
	if n.front != nil {
		front = n.front.clipPolygons(front)
	}
	if n.back != nil {
		back = n.back.clipPolygons(back)
	} else {
		back = nil
	}
	return append(front, back...)
}

// clipTo removes all polygons of this subtree that are inside the other
// subtree's solid.
func (n *bspNode) clipTo(other *bspNode) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

// allPolygons collects every polygon stored in the subtree.
func (n *bspNode) allPolygons() []Polygon {
	out := append([]Polygon{}, n.polygons...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// splitPolygon classifies q against plane and appends it, or its fragments,
// to the matching output lists. Vertices within epsilon of the plane are
// treated as on it. A polygon entirely within epsilon of the plane is
// coplanar and is assigned front or back by comparing normals; classifying
// near-parallel faces this way prevents endless re-splitting. A spanning
// polygon is cut into two fragments that share the interpolated edge
// vertices, so their union reconstructs q exactly.
func splitPolygon(plane Plane, q Polygon, coplanarFront, coplanarBack, front, back *[]Polygon) {
	qtype := sideCoplanar
	types := make([]int, len(q.V))
	for i, v := range q.V {
		t := r3.Dot(plane.N, v) - plane.D
		side := sideCoplanar
		if t < -epsilon {
			side = sideBack
		} else if t > epsilon {
			side = sideFront
		}
		types[i] = side
		qtype |= side
	}
	switch qtype {
	case sideCoplanar:
		if r3.Dot(plane.N, q.Plane.N) > 0 {
			*coplanarFront = append(*coplanarFront, q)
		} else {
			*coplanarBack = append(*coplanarBack, q)
		}
	case sideFront:
		*front = append(*front, q)
	case sideBack:
		*back = append(*back, q)
	case sideSpanning:
		var f, b []r3.Vec
		for i, vi := range q.V {
			j := (i + 1) % len(q.V)
			ti, tj := types[i], types[j]
			vj := q.V[j]
			if ti != sideBack {
				f = append(f, vi)
			}
			if ti != sideFront {
				b = append(b, vi)
			}
			if ti|tj == sideSpanning {
				t := (plane.D - r3.Dot(plane.N, vi)) / r3.Dot(plane.N, r3.Sub(vj, vi))
				v := r3.Add(vi, r3.Scale(t, r3.Sub(vj, vi)))
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*front = append(*front, Polygon{V: f, Plane: q.Plane})
		}
		if len(b) >= 3 {
			*back = append(*back, Polygon{V: b, Plane: q.Plane})
		}
	}
}
