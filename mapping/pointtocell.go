package mapping

import (
	"gonum.org/v1/gonum/floats"

	"github.com/sarchlab/coupler/grid"
)

// PointToCell averages the values of the source nodes inside each
// destination cell. Cells without source nodes receive the fill value.
type PointToCell struct {
	members [][]int
	srcSize int
	ready   bool
	scratch []float64
}

// NewPointToCell creates a PointToCell mapper.
func NewPointToCell() *PointToCell {
	return &PointToCell{}
}

// Name returns the method name.
func (m *PointToCell) Name() string {
	return MethodPointToCell
}

// Centering maps node values to cell values.
func (m *PointToCell) Centering() (dst, src grid.Location) {
	return grid.Face, grid.Node
}

// Test requires polygon cells on the destination grid and nodes on the
// source grid.
func (m *PointToCell) Test(dst, src *grid.Mesh) bool {
	return hasPolygons(dst) && src.NumNodes() > 0
}

// Initialize assigns every source node to the destination cell holding it.
func (m *PointToCell) Initialize(dst, src *grid.Mesh) error {
	if !m.Test(dst, src) {
		return ErrIncompatibleGrid
	}

	loc := newLocator(dst)

	m.members = make([][]int, dst.NumCells())
	for i := 0; i < src.NumNodes(); i++ {
		if c := loc.cell(src.Node(i)); c >= 0 {
			m.members[c] = append(m.members[c], i)
		}
	}

	m.srcSize = src.NumNodes()
	m.ready = true

	return nil
}

// Run averages node values into cells.
func (m *PointToCell) Run(src, dst []float64, fill float64) ([]float64, error) {
	if !m.ready {
		return nil, ErrNotInitialized
	}

	dst, err := prepare(src, dst, m.srcSize, len(m.members))
	if err != nil {
		return nil, err
	}

	for c, nodes := range m.members {
		if len(nodes) == 0 {
			dst[c] = fill
			continue
		}

		m.scratch = m.scratch[:0]
		for _, n := range nodes {
			m.scratch = append(m.scratch, src[n])
		}

		dst[c] = floats.Sum(m.scratch) / float64(len(nodes))
	}

	return dst, nil
}

// Finalize drops the mapping.
func (m *PointToCell) Finalize() error {
	m.members = nil
	m.scratch = nil
	m.ready = false

	return nil
}
