// Package render converts voxelized boxcsg output to triangle meshes and
// writes them as binary STL.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	// V is the triangle vertices, wound counter-clockwise around the
	// outward normal.
	V [3]r3.Vec
}

// Normal returns the triangle's unit normal following the right-hand rule
// of the vertex winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Renderer is a source of model triangles.
type Renderer interface {
	// ReadTriangles writes triangles into the argument buffer and returns
	// the number written. It returns io.EOF once the model is exhausted.
	ReadTriangles(t []Triangle3) (int, error)
}

type triangle3Buffer struct {
	buf []Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
