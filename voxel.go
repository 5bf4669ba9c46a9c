package boxcsg

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/soypat/boxcsg/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMaxCells is the voxel grid cell ceiling applied when
// Voxelizer.MaxCells is unset. Grid volume is unbounded relative to the
// step size, so the ceiling guards against accidental runaway scans.
const DefaultMaxCells = 1 << 24

// Voxelizer reconstructs a solid as axis-aligned boxes on a regular grid.
// Each grid cell is sampled at its center and classified inside or outside
// by counting +X ray crossings against the solid's polygons; odd means
// inside. Scanning is lexicographic in (x, y, z) and the output order is
// deterministic for fixed inputs, also with Concurrency > 1.
type Voxelizer struct {
	solid Solid
	step  float64
	// Concurrency is the number of worker goroutines scanning grid slabs.
	// Values below 2 scan serially.
	Concurrency int
	// MaxCells overrides DefaultMaxCells when positive.
	MaxCells int
}

// NewVoxelizer validates the voxelization step and prepares a grid scan of
// the solid. A step that is not a positive finite number returns
// ErrInvalidResolution.
func NewVoxelizer(s Solid, step float64) (*Voxelizer, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: step %v", ErrInvalidResolution, step)
	}
	return &Voxelizer{solid: s, step: step}, nil
}

// Voxelize reconstructs the solid as boxes of side step. It is shorthand for
// NewVoxelizer followed by Run with a background context.
func Voxelize(s Solid, step float64) ([]r3.Box, error) {
	vox, err := NewVoxelizer(s, step)
	if err != nil {
		return nil, err
	}
	return vox.Run(context.Background())
}

// Run scans the grid and returns one box per inside cell, spanning
// [floor, floor+step) on each axis. The cell ceiling is checked before any
// scanning starts. ctx is polled between grid slabs so interactive hosts
// can abandon long scans; on cancellation Run returns ctx.Err().
func (vox *Voxelizer) Run(ctx context.Context) ([]r3.Box, error) {
	if len(vox.solid.Polygons) == 0 {
		return nil, nil
	}
	maxCells := vox.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	bb := d3.Box(vox.solid.Bounds())
	size := bb.Size()
	// Cell centers at min+(i+0.5)*step must stay below max: the far
	// boundary is half-open so an extent that is an exact multiple of
	// step produces no fractional far cell.
	fx := math.Ceil(size.X/vox.step - 0.5)
	fy := math.Ceil(size.Y/vox.step - 0.5)
	fz := math.Ceil(size.Z/vox.step - 0.5)
	if fx < 0 || fy < 0 || fz < 0 {
		return nil, nil
	}
	if fx*fy*fz > float64(maxCells) {
		return nil, fmt.Errorf("%w: %.0fx%.0fx%.0f cells over ceiling %d",
			ErrUnboundedVoxelization, fx, fy, fz, maxCells)
	}
	nx, ny, nz := int(fx), int(fy), int(fz)
	if nx == 0 || ny == 0 || nz == 0 {
		return nil, nil
	}
	slabs := make([][]r3.Box, nx)
	workers := vox.Concurrency
	if workers > nx {
		workers = nx
	}
	if workers < 2 {
		for ix := 0; ix < nx; ix++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slabs[ix] = vox.scanSlab(bb.Min, ix, ny, nz)
		}
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				// Strided slab assignment: workers write disjoint
				// slots so no locking is needed and merging by slab
				// index preserves the serial order.
				for ix := w; ix < nx; ix += workers {
					if ctx.Err() != nil {
						return
					}
					slabs[ix] = vox.scanSlab(bb.Min, ix, ny, nz)
				}
			}(w)
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	var out []r3.Box
	for _, slab := range slabs {
		out = append(out, slab...)
	}
	return out, nil
}

// scanSlab classifies every sample of the grid slab at x index ix.
func (vox *Voxelizer) scanSlab(origin r3.Vec, ix, ny, nz int) []r3.Box {
	var out []r3.Box
	x := origin.X + float64(ix)*vox.step
	for iy := 0; iy < ny; iy++ {
		y := origin.Y + float64(iy)*vox.step
		for iz := 0; iz < nz; iz++ {
			z := origin.Z + float64(iz)*vox.step
			center := r3.Vec{X: x + 0.5*vox.step, Y: y + 0.5*vox.step, Z: z + 0.5*vox.step}
			if !vox.inside(center) {
				continue
			}
			min := r3.Vec{X: x, Y: y, Z: z}
			out = append(out, r3.Box{Min: min, Max: r3.Add(min, d3.Elem(vox.step))})
		}
	}
	return out
}

// inside classifies p by ray parity: a ray cast towards +X crosses the
// boundary an odd number of times iff p is inside the solid. Faces parallel
// to the ray are skipped, as are crossings at parameter t <= epsilon so the
// sample point itself is never counted.
func (vox *Voxelizer) inside(p r3.Vec) bool {
	crossings := 0
	for i := range vox.solid.Polygons {
		q := &vox.solid.Polygons[i]
		denom := q.Plane.N.X
		if math.Abs(denom) <= epsilon {
			continue
		}
		t := (q.Plane.D - r3.Dot(q.Plane.N, p)) / denom
		if t <= epsilon {
			continue
		}
		hit := r3.Add(p, r3.Vec{X: t})
		if pointInPolygon(*q, hit) {
			crossings++
		}
	}
	return crossings&1 == 1
}

// dominantProject returns the projection dropping the dominant axis of n,
// mapping 3D points on a plane with normal n to 2D without degeneracy.
func dominantProject(n r3.Vec) func(r3.Vec) r2.Vec {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax >= ay && ax >= az:
		return func(v r3.Vec) r2.Vec { return r2.Vec{X: v.Y, Y: v.Z} }
	case ay >= az:
		return func(v r3.Vec) r2.Vec { return r2.Vec{X: v.X, Y: v.Z} }
	default:
		return func(v r3.Vec) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }
	}
}

// pointInPolygon tests whether a point on the polygon's plane lies inside
// the polygon, by even-odd crossing counting after projecting both onto the
// plane's dominant axis pair.
func pointInPolygon(q Polygon, pt r3.Vec) bool {
	proj := dominantProject(q.Plane.N)
	p := proj(pt)
	in := false
	j := len(q.V) - 1
	for i := 0; i < len(q.V); i++ {
		a := proj(q.V[i])
		b := proj(q.V[j])
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}
