package mapping

import (
	"github.com/sarchlab/coupler/grid"
)

// NearestVal gives every destination node the value of the nearest source
// node.
type NearestVal struct {
	nearest []int
	srcSize int
}

// NewNearestVal creates a NearestVal mapper.
func NewNearestVal() *NearestVal {
	return &NearestVal{}
}

// Name returns the method name.
func (m *NearestVal) Name() string {
	return MethodNearestVal
}

// Centering maps node values to node values.
func (m *NearestVal) Centering() (dst, src grid.Location) {
	return grid.Node, grid.Node
}

// Test requires nodes on both grids.
func (m *NearestVal) Test(dst, src *grid.Mesh) bool {
	return dst.NumNodes() > 0 && src.NumNodes() > 0
}

// Initialize finds the nearest source node of every destination node.
func (m *NearestVal) Initialize(dst, src *grid.Mesh) error {
	if !m.Test(dst, src) {
		return ErrIncompatibleGrid
	}

	ix := newIndex(src.Locations(grid.Node))

	m.nearest = make([]int, dst.NumNodes())
	for i := range m.nearest {
		m.nearest[i] = ix.nearest(dst.Node(i))
	}

	m.srcSize = src.NumNodes()

	return nil
}

// Run copies the nearest source values. The fill value is never used since
// every destination node has a nearest source node.
func (m *NearestVal) Run(src, dst []float64, _ float64) ([]float64, error) {
	if m.nearest == nil {
		return nil, ErrNotInitialized
	}

	dst, err := prepare(src, dst, m.srcSize, len(m.nearest))
	if err != nil {
		return nil, err
	}

	for i, j := range m.nearest {
		dst[i] = src[j]
	}

	return dst, nil
}

// Finalize drops the mapping.
func (m *NearestVal) Finalize() error {
	m.nearest = nil
	return nil
}
