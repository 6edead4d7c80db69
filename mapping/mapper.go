// Package mapping moves values between grids. Every mapper builds its index
// or weight operator once in Initialize and reuses it on every Run.
package mapping

import (
	"fmt"

	"github.com/sarchlab/coupler/grid"
)

// A Mapper maps values defined on a source grid onto a destination grid.
type Mapper interface {
	// Name returns the method name.
	Name() string

	// Centering returns where the destination and source values sit.
	Centering() (dst, src grid.Location)

	// Test tells if the mapper can map between the grids. It is cheap and
	// does not build anything.
	Test(dst, src *grid.Mesh) bool

	// Initialize builds the mapping between the grids.
	Initialize(dst, src *grid.Mesh) error

	// Run maps src onto dst and returns dst. A nil dst is allocated.
	// Unmapped destination entries are set to fill.
	Run(src, dst []float64, fill float64) ([]float64, error)

	// Finalize releases the mapping.
	Finalize() error
}

// Method names.
const (
	MethodAuto         = "auto"
	MethodNearestVal   = "nearest_val"
	MethodCellToPoint  = "cell_to_point"
	MethodPointToCell  = "point_to_cell"
	MethodNearest      = "nearest"
	MethodBilinear     = "bilinear"
	MethodConservative = "conservative"
)

// Options configures the remap methods. The point methods ignore it.
type Options struct {
	SrcLocation grid.Location
	DstLocation grid.Location
	Unmapped    Policy
}

// New creates a mapper by method name.
func New(method string, opts Options) (Mapper, error) {
	switch method {
	case MethodNearestVal:
		return NewNearestVal(), nil
	case MethodCellToPoint:
		return NewCellToPoint(), nil
	case MethodPointToCell:
		return NewPointToCell(), nil
	case MethodNearest, MethodBilinear, MethodConservative:
		return NewRemap(RemapMethod(method), opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

func candidates() []Mapper {
	return []Mapper{NewCellToPoint(), NewPointToCell(), NewNearestVal()}
}

// Find returns the first of CellToPoint, PointToCell and NearestVal that can
// map between the grids.
func Find(dst, src *grid.Mesh) (Mapper, error) {
	for _, m := range candidates() {
		if m.Test(dst, src) {
			return m, nil
		}
	}

	return nil, ErrIncompatibleGrid
}

// FindAt is Find restricted to mappers whose centering matches the
// locations of the values. Cell to cell falls back to a conservative remap.
func FindAt(dst, src *grid.Mesh, dstLoc, srcLoc grid.Location) (Mapper, error) {
	all := candidates()

	conservative, err := NewRemap(Conservative, Options{})
	if err != nil {
		return nil, err
	}

	all = append(all, conservative)

	for _, m := range all {
		d, s := m.Centering()
		if d == dstLoc && s == srcLoc && m.Test(dst, src) {
			return m, nil
		}
	}

	return nil, fmt.Errorf("%w: no mapper from %s to %s values",
		ErrIncompatibleGrid, srcLoc, dstLoc)
}

// prepare checks the sizes of the value arrays and allocates dst if needed.
func prepare(src, dst []float64, srcSize, dstSize int) ([]float64, error) {
	if len(src) != srcSize {
		return nil, fmt.Errorf("%w: source has %d values, grid has %d",
			ErrSizeMismatch, len(src), srcSize)
	}

	if dst == nil {
		return make([]float64, dstSize), nil
	}

	if len(dst) != dstSize {
		return nil, fmt.Errorf("%w: destination has %d values, grid has %d",
			ErrSizeMismatch, len(dst), dstSize)
	}

	return dst, nil
}

func hasPolygons(m *grid.Mesh) bool {
	return m.HasCells() && m.MinCellNodes() >= 3
}
