package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// trianglesPerBox is the fixed tessellation of an axis-aligned box:
// 6 quad faces split in two.
const trianglesPerBox = 12

// boxFaces indexes the 8 box corners per face in outward winding.
// Corner i has bit 0 selecting Max.X, bit 1 selecting Max.Y and bit 2
// selecting Max.Z.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// boxRenderer streams the triangle mesh of a voxel box list.
type boxRenderer struct {
	boxes     []r3.Box
	next      int
	unwritten triangle3Buffer
}

// NewBoxRenderer returns a Renderer emitting 12 outward-wound triangles per
// axis-aligned box, in box list order. The order is deterministic so
// repeated renders of the same voxelization are byte-identical on disk.
func NewBoxRenderer(boxes []r3.Box) Renderer {
	return &boxRenderer{boxes: boxes}
}

// ReadTriangles writes box mesh triangles into the argument buffer and
// returns the number written, io.EOF once all boxes are exhausted.
func (br *boxRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if br.unwritten.Len() > 0 {
		n += br.unwritten.Read(dst)
	}
	for n < len(dst) && br.next < len(br.boxes) {
		var mesh [trianglesPerBox]Triangle3
		boxTriangles(mesh[:], br.boxes[br.next])
		br.next++
		w := copy(dst[n:], mesh[:])
		n += w
		if w < len(mesh) {
			br.unwritten.Write(mesh[w:])
		}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// boxTriangles tessellates a box into dst, which must hold trianglesPerBox.
func boxTriangles(dst []Triangle3, b r3.Box) {
	var corners [8]r3.Vec
	for i := range corners {
		v := b.Min
		if i&1 != 0 {
			v.X = b.Max.X
		}
		if i&2 != 0 {
			v.Y = b.Max.Y
		}
		if i&4 != 0 {
			v.Z = b.Max.Z
		}
		corners[i] = v
	}
	for i, f := range boxFaces {
		a, b, c, d := corners[f[0]], corners[f[1]], corners[f[2]], corners[f[3]]
		dst[2*i] = Triangle3{V: [3]r3.Vec{a, b, c}}
		dst[2*i+1] = Triangle3{V: [3]r3.Vec{a, c, d}}
	}
}
