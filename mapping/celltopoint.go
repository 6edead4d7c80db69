package mapping

import (
	"github.com/sarchlab/coupler/grid"
)

// CellToPoint gives every destination node the value of the source cell that
// contains it. A nearby source node narrows the search to the cells sharing
// it; containment, not proximity, picks the cell. Destination nodes outside
// every source cell are unmapped and always receive the fill value.
type CellToPoint struct {
	cells   []int
	srcSize int
}

// NewCellToPoint creates a CellToPoint mapper.
func NewCellToPoint() *CellToPoint {
	return &CellToPoint{}
}

// Name returns the method name.
func (m *CellToPoint) Name() string {
	return MethodCellToPoint
}

// Centering maps cell values to node values.
func (m *CellToPoint) Centering() (dst, src grid.Location) {
	return grid.Node, grid.Face
}

// Test requires polygon cells on the source grid and nodes on the
// destination grid.
func (m *CellToPoint) Test(dst, src *grid.Mesh) bool {
	return hasPolygons(src) && dst.NumNodes() > 0
}

// Initialize locates the source cell of every destination node.
func (m *CellToPoint) Initialize(dst, src *grid.Mesh) error {
	if !m.Test(dst, src) {
		return ErrIncompatibleGrid
	}

	loc := newLocator(src)

	m.cells = make([]int, dst.NumNodes())
	for i := range m.cells {
		m.cells[i] = loc.cell(dst.Node(i))
	}

	m.srcSize = src.NumCells()

	return nil
}

// Unmapped returns the destination nodes outside every source cell.
func (m *CellToPoint) Unmapped() []int {
	var bad []int

	for i, c := range m.cells {
		if c < 0 {
			bad = append(bad, i)
		}
	}

	return bad
}

// Run copies cell values to the nodes they contain.
func (m *CellToPoint) Run(src, dst []float64, fill float64) ([]float64, error) {
	if m.cells == nil {
		return nil, ErrNotInitialized
	}

	dst, err := prepare(src, dst, m.srcSize, len(m.cells))
	if err != nil {
		return nil, err
	}

	for i, c := range m.cells {
		if c < 0 {
			dst[i] = fill
			continue
		}

		dst[i] = src[c]
	}

	return dst, nil
}

// Finalize drops the mapping.
func (m *CellToPoint) Finalize() error {
	m.cells = nil
	return nil
}
