package boxcsg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// 4x4 affine matrix routines for rigid box transforms.
// Only translation, rotation and composition are needed by the pipeline so
// this stays self-contained instead of pulling in a full linear algebra
// dependency.

// m44 is a 4x4 matrix in row-major order.
type m44 struct {
	x00, x01, x02, x03 float64
	x10, x11, x12, x13 float64
	x20, x21, x22, x23 float64
	x30, x31, x32, x33 float64
}

// identity3d returns the identity matrix.
func identity3d() m44 {
	return m44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1}
}

// translate3d returns a translation matrix.
func translate3d(v r3.Vec) m44 {
	return m44{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1}
}

// rotate3dX returns a matrix for rotation about the X axis, angle in radians.
func rotate3dX(a float64) m44 {
	c := math.Cos(a)
	s := math.Sin(a)
	return m44{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1}
}

// rotate3dY returns a matrix for rotation about the Y axis, angle in radians.
func rotate3dY(a float64) m44 {
	c := math.Cos(a)
	s := math.Sin(a)
	return m44{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1}
}

// rotate3dZ returns a matrix for rotation about the Z axis, angle in radians.
func rotate3dZ(a float64) m44 {
	c := math.Cos(a)
	s := math.Sin(a)
	return m44{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1}
}

// Mul multiplies two matrices, a.Mul(b) applies b first then a.
func (a m44) Mul(b m44) m44 {
	m := m44{}
	m.x00 = a.x00*b.x00 + a.x01*b.x10 + a.x02*b.x20 + a.x03*b.x30
	m.x10 = a.x10*b.x00 + a.x11*b.x10 + a.x12*b.x20 + a.x13*b.x30
	m.x20 = a.x20*b.x00 + a.x21*b.x10 + a.x22*b.x20 + a.x23*b.x30
	m.x30 = a.x30*b.x00 + a.x31*b.x10 + a.x32*b.x20 + a.x33*b.x30
	m.x01 = a.x00*b.x01 + a.x01*b.x11 + a.x02*b.x21 + a.x03*b.x31
	m.x11 = a.x10*b.x01 + a.x11*b.x11 + a.x12*b.x21 + a.x13*b.x31
	m.x21 = a.x20*b.x01 + a.x21*b.x11 + a.x22*b.x21 + a.x23*b.x31
	m.x31 = a.x30*b.x01 + a.x31*b.x11 + a.x32*b.x21 + a.x33*b.x31
	m.x02 = a.x00*b.x02 + a.x01*b.x12 + a.x02*b.x22 + a.x03*b.x32
	m.x12 = a.x10*b.x02 + a.x11*b.x12 + a.x12*b.x22 + a.x13*b.x32
	m.x22 = a.x20*b.x02 + a.x21*b.x12 + a.x22*b.x22 + a.x23*b.x32
	m.x32 = a.x30*b.x02 + a.x31*b.x12 + a.x32*b.x22 + a.x33*b.x32
	m.x03 = a.x00*b.x03 + a.x01*b.x13 + a.x02*b.x23 + a.x03*b.x33
	m.x13 = a.x10*b.x03 + a.x11*b.x13 + a.x12*b.x23 + a.x13*b.x33
	m.x23 = a.x20*b.x03 + a.x21*b.x13 + a.x22*b.x23 + a.x23*b.x33
	m.x33 = a.x30*b.x03 + a.x31*b.x13 + a.x32*b.x23 + a.x33*b.x33
	return m
}

// MulPosition multiplies an r3.Vec position with a rotate/translate matrix.
func (a m44) MulPosition(b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a.x00*b.X + a.x01*b.Y + a.x02*b.Z + a.x03,
		Y: a.x10*b.X + a.x11*b.Y + a.x12*b.Z + a.x13,
		Z: a.x20*b.X + a.x21*b.Y + a.x22*b.Z + a.x23,
	}
}

// pivotTransform returns the rigid transform that rotates about pivot by the
// argument Euler angles in degrees, X then Y then Z intrinsic order:
//
//	M = T(pivot) · Rz · Ry · Rx · T(-pivot)
//
// A zero rotation triple returns the exact identity so callers can skip the
// transform entirely without changing results.
func pivotTransform(pivot, degrees r3.Vec) m44 {
	if degrees == (r3.Vec{}) {
		return identity3d()
	}
	m := translate3d(pivot)
	m = m.Mul(rotate3dZ(DtoR(degrees.Z)))
	m = m.Mul(rotate3dY(DtoR(degrees.Y)))
	m = m.Mul(rotate3dX(DtoR(degrees.X)))
	return m.Mul(translate3d(r3.Scale(-1, pivot)))
}
