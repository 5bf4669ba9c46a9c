package boxcsg

import "math"

const (
	pi = math.Pi
	// epsilon is the single numeric tolerance shared by plane-side
	// classification in the BSP combiner and by the voxelizer's ray
	// parallelism, parameter positivity and point-in-polygon checks.
	// Keeping one constant avoids samples that one check considers on
	// the surface and another considers beyond it.
	epsilon = 1e-5
)

// DtoR converts degrees to radians.
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees.
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// EqualFloat64 compares two float64 values for equality within tol.
func EqualFloat64(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
