// Package boxcsg performs boolean constructive solid geometry on rotatable
// box primitives. A box is converted to a boundary representation solid,
// combined with another solid by BSP clipping, and the result is
// reconstructed as a set of axis-aligned voxel boxes via ray-parity
// classification on a regular grid.
package boxcsg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned box that may be rotated about a pivot point.
// From and To are opposite corners with From[i] <= To[i] expected on every
// axis. Rotation is in degrees, applied about Origin in X then Y then Z
// intrinsic order. The zero Rotation means no rotation at all.
type Box struct {
	From     r3.Vec
	To       r3.Vec
	Origin   r3.Vec
	Rotation r3.Vec
}

// Operation selects the boolean combination applied to two solids.
type Operation int

const (
	// OpUnion keeps the volume inside either solid.
	OpUnion Operation = iota
	// OpDifference keeps the volume of the first solid not inside the second.
	OpDifference
	// OpIntersect keeps the volume inside both solids.
	OpIntersect
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersect:
		return "intersect"
	}
	return "unknown(" + fmt.Sprint(int(op)) + ")"
}

// ParseOperation parses an operation name. "subtract" and "difference" are
// synonyms, as are "intersect" and "intersection".
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "union":
		return OpUnion, nil
	case "subtract", "difference":
		return OpDifference, nil
	case "intersect", "intersection":
		return OpIntersect, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// Combine converts both boxes to solids, combines them with op and
// voxelizes the result at the argument resolution (voxel side length).
// The returned boxes are the replacement geometry for the two inputs.
// Failures are deterministic input errors; on error no voxels are returned
// and the inputs are left untouched.
func Combine(a, b Box, op Operation, resolution float64) ([]r3.Box, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResolution, resolution)
	}
	sa, err := BoxSolid(a)
	if err != nil {
		return nil, err
	}
	sb, err := BoxSolid(b)
	if err != nil {
		return nil, err
	}
	// The BSP combiner assumes watertight operands and produces garbage
	// otherwise, so the precondition is enforced here. This is what catches
	// degenerate rotations (NaN angles) that survive box conversion.
	if !sa.Watertight() {
		return nil, fmt.Errorf("%w: first operand", ErrMalformedSolid)
	}
	if !sb.Watertight() {
		return nil, fmt.Errorf("%w: second operand", ErrMalformedSolid)
	}
	var s Solid
	switch op {
	case OpUnion:
		s = Union(sa, sb)
	case OpDifference:
		s = Difference(sa, sb)
	case OpIntersect:
		s = Intersect(sa, sb)
	default:
		panic("invalid Operation: " + op.String())
	}
	return Voxelize(s, resolution)
}
