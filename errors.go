package boxcsg

import "errors"

// Pipeline errors. All are deterministic input errors detected at stage
// entry and surfaced unchanged by Combine; none are transient, so callers
// should not retry.
var (
	// ErrDegenerateGeometry reports a box with a zero, negative or
	// non-finite extent on some axis.
	ErrDegenerateGeometry = errors.New("degenerate box geometry")
	// ErrInvalidResolution reports a voxelization step that is not a
	// positive finite number.
	ErrInvalidResolution = errors.New("invalid voxel resolution")
	// ErrUnboundedVoxelization reports a voxel grid whose cell count
	// exceeds the configured ceiling. It is returned before any grid
	// scanning begins.
	ErrUnboundedVoxelization = errors.New("voxel grid exceeds cell ceiling")
	// ErrMalformedSolid reports a solid that failed the watertightness
	// audit and cannot be combined or voxelized meaningfully.
	ErrMalformedSolid = errors.New("solid is not watertight")
)
