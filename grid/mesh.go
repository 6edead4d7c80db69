package grid

import (
	"math"
)

// A Mesh is the unstructured form of a grid: node coordinates plus cells
// given as node lists. A mesh without cells is a point cloud.
type Mesh struct {
	X, Y         []float64
	Connectivity []int
	Offset       []int

	pointCells [][]int
}

// NewMesh converts a descriptor into a mesh. Structured cells are emitted
// counterclockwise for positive spacing.
func NewMesh(d Descriptor) (*Mesh, error) {
	switch d.Type {
	case Scalar:
		return &Mesh{X: []float64{0}, Y: []float64{0}}, nil
	case Points:
		return pointMesh(d)
	case UniformRectilinear:
		return uniformMesh(d)
	case Rectilinear:
		return rectilinearMesh(d)
	case StructuredQuadrilateral:
		return quadrilateralMesh(d)
	case Unstructured:
		return NewUnstructuredMesh(d.X, d.Y, d.Connectivity, d.Offset)
	default:
		return nil, invalid(d, "unknown grid type")
	}
}

// NewUnstructuredMesh builds a mesh from explicit nodes and cells.
func NewUnstructuredMesh(x, y []float64, connectivity, offset []int) (*Mesh, error) {
	d := Descriptor{Type: Unstructured}

	if len(x) != len(y) {
		return nil, invalid(d, "%d x coordinates but %d y coordinates", len(x), len(y))
	}

	start := 0
	for i, end := range offset {
		if end < start || end > len(connectivity) {
			return nil, invalid(d, "offset %d of cell %d is out of order", end, i)
		}

		start = end
	}

	if len(offset) > 0 && start != len(connectivity) {
		return nil, invalid(d, "offsets end at %d, connectivity has %d entries",
			start, len(connectivity))
	}

	if len(offset) == 0 && len(connectivity) > 0 {
		return nil, invalid(d, "connectivity without offsets")
	}

	for _, n := range connectivity {
		if n < 0 || n >= len(x) {
			return nil, invalid(d, "node %d does not exist", n)
		}
	}

	return &Mesh{
		X:            append([]float64(nil), x...),
		Y:            append([]float64(nil), y...),
		Connectivity: append([]int(nil), connectivity...),
		Offset:       append([]int(nil), offset...),
	}, nil
}

func pointMesh(d Descriptor) (*Mesh, error) {
	if len(d.X) != len(d.Y) || len(d.X) == 0 {
		return nil, invalid(d, "need matching, non-empty x and y")
	}

	return &Mesh{
		X: append([]float64(nil), d.X...),
		Y: append([]float64(nil), d.Y...),
	}, nil
}

func uniformMesh(d Descriptor) (*Mesh, error) {
	ny, nx, err := d.nodeCounts()
	if err != nil {
		return nil, err
	}

	rank := len(d.Shape)
	if (len(d.Spacing) != 0 && len(d.Spacing) != rank) ||
		(len(d.Origin) != 0 && len(d.Origin) != rank) {
		return nil, invalid(d, "spacing and origin must have rank %d", rank)
	}

	dx := d.axis(d.Spacing, rank-1, 1)
	x0 := d.axis(d.Origin, rank-1, 0)
	dy, y0 := 1.0, 0.0

	if rank == 2 {
		dy = d.axis(d.Spacing, 0, 1)
		y0 = d.axis(d.Origin, 0, 0)
	}

	xs := make([]float64, nx)
	for j := range xs {
		xs[j] = x0 + float64(j)*dx
	}

	ys := make([]float64, ny)
	for i := range ys {
		ys[i] = y0 + float64(i)*dy
	}

	return structuredMesh(xs, ys, rank), nil
}

func rectilinearMesh(d Descriptor) (*Mesh, error) {
	ny, nx, err := d.nodeCounts()
	if err != nil {
		return nil, err
	}

	if len(d.X) != nx {
		return nil, invalid(d, "need %d x coordinates, got %d", nx, len(d.X))
	}

	ys := d.Y
	if len(d.Shape) == 1 {
		ys = []float64{0}
	} else if len(d.Y) != ny {
		return nil, invalid(d, "need %d y coordinates, got %d", ny, len(d.Y))
	}

	return structuredMesh(d.X, ys, len(d.Shape)), nil
}

// structuredMesh lays nodes out row by row. One dimensional grids have no
// cells.
func structuredMesh(xs, ys []float64, rank int) *Mesh {
	nx, ny := len(xs), len(ys)
	m := &Mesh{
		X: make([]float64, 0, nx*ny),
		Y: make([]float64, 0, nx*ny),
	}

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			m.X = append(m.X, xs[j])
			m.Y = append(m.Y, ys[i])
		}
	}

	if rank == 2 {
		m.addQuads(ny, nx)
	}

	return m
}

func quadrilateralMesh(d Descriptor) (*Mesh, error) {
	if len(d.Shape) != 2 {
		return nil, invalid(d, "need a rank 2 shape")
	}

	ny, nx, err := d.nodeCounts()
	if err != nil {
		return nil, err
	}

	if len(d.X) != nx*ny || len(d.Y) != nx*ny {
		return nil, invalid(d, "need %d node coordinates", nx*ny)
	}

	m := &Mesh{
		X: append([]float64(nil), d.X...),
		Y: append([]float64(nil), d.Y...),
	}
	m.addQuads(ny, nx)

	return m, nil
}

func (m *Mesh) addQuads(ny, nx int) {
	if ny < 2 || nx < 2 {
		return
	}

	n := (ny - 1) * (nx - 1)
	m.Connectivity = make([]int, 0, 4*n)
	m.Offset = make([]int, 0, n)

	for i := 0; i < ny-1; i++ {
		for j := 0; j < nx-1; j++ {
			ll := i*nx + j
			m.Connectivity = append(m.Connectivity, ll, ll+1, ll+nx+1, ll+nx)
			m.Offset = append(m.Offset, len(m.Connectivity))
		}
	}
}

// NumNodes returns the number of nodes.
func (m *Mesh) NumNodes() int {
	return len(m.X)
}

// NumCells returns the number of cells.
func (m *Mesh) NumCells() int {
	return len(m.Offset)
}

// HasCells tells if the mesh is more than a point cloud.
func (m *Mesh) HasCells() bool {
	return len(m.Offset) > 0
}

// Size returns how many values a variable at the location holds.
func (m *Mesh) Size(loc Location) int {
	if loc == Face {
		return m.NumCells()
	}

	return m.NumNodes()
}

// Node returns the coordinates of a node.
func (m *Mesh) Node(i int) Point {
	return Point{X: m.X[i], Y: m.Y[i]}
}

// CellNodes returns the node indices of a cell. The slice aliases the mesh.
func (m *Mesh) CellNodes(c int) []int {
	start := 0
	if c > 0 {
		start = m.Offset[c-1]
	}

	return m.Connectivity[start:m.Offset[c]]
}

// MinCellNodes returns the node count of the smallest cell, or 0 if the mesh
// has no cells.
func (m *Mesh) MinCellNodes() int {
	least := 0
	for c := 0; c < m.NumCells(); c++ {
		n := len(m.CellNodes(c))
		if c == 0 || n < least {
			least = n
		}
	}

	return least
}

// Polygon returns the ring of a cell.
func (m *Mesh) Polygon(c int) Polygon {
	nodes := m.CellNodes(c)
	p := make(Polygon, len(nodes))

	for i, n := range nodes {
		p[i] = m.Node(n)
	}

	return p
}

// Centroid returns the area centroid of a cell.
func (m *Mesh) Centroid(c int) Point {
	return m.Polygon(c).Centroid()
}

// Area returns the area of a cell.
func (m *Mesh) Area(c int) float64 {
	return m.Polygon(c).Area()
}

// CellContains tells if a cell covers a location, boundary included.
func (m *Mesh) CellContains(c int, q Point) bool {
	return m.Polygon(c).Contains(q)
}

// PointCells returns the cells that share a node, in ascending order.
func (m *Mesh) PointCells(n int) []int {
	if m.pointCells == nil {
		m.buildPointCells()
	}

	return m.pointCells[n]
}

func (m *Mesh) buildPointCells() {
	m.pointCells = make([][]int, m.NumNodes())

	for c := 0; c < m.NumCells(); c++ {
		for _, n := range m.CellNodes(c) {
			cells := m.pointCells[n]
			if len(cells) > 0 && cells[len(cells)-1] == c {
				continue
			}

			m.pointCells[n] = append(cells, c)
		}
	}
}

// Locations returns where the values of a variable at the location sit:
// nodes, or cell centroids for faces.
func (m *Mesh) Locations(loc Location) []Point {
	if loc == Face {
		pts := make([]Point, m.NumCells())
		for c := range pts {
			pts[c] = m.Centroid(c)
		}

		return pts
	}

	pts := make([]Point, m.NumNodes())
	for i := range pts {
		pts[i] = m.Node(i)
	}

	return pts
}

// Bounds returns the corners of the bounding box of all nodes.
func (m *Mesh) Bounds() (lo, hi Point) {
	lo = Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = Point{X: math.Inf(-1), Y: math.Inf(-1)}

	for i := range m.X {
		lo.X = math.Min(lo.X, m.X[i])
		lo.Y = math.Min(lo.Y, m.Y[i])
		hi.X = math.Max(hi.X, m.X[i])
		hi.Y = math.Max(hi.Y, m.Y[i])
	}

	return lo, hi
}
