package mapping

import (
	"fmt"
	"math"

	"github.com/sarchlab/coupler/grid"
)

// RemapMethod selects how Remap builds its weights.
type RemapMethod string

// Remap methods.
const (
	Nearest      RemapMethod = MethodNearest
	Bilinear     RemapMethod = MethodBilinear
	Conservative RemapMethod = MethodConservative
)

// Policy tells what to do with destination locations no source covers.
type Policy string

// Unmapped policies.
const (
	// Ignore fills unmapped locations with the fill value on every run.
	Ignore Policy = "ignore"

	// Raise fails Initialize if any destination location is unmapped.
	Raise Policy = "raise"
)

// ParsePolicy accepts "ignore" and "raise". Empty means ignore.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", Ignore:
		return Ignore, nil
	case Raise:
		return Raise, nil
	default:
		return "", fmt.Errorf("%w: unmapped policy %q", ErrInvalidOptions, s)
	}
}

// Remap maps values between unstructured meshes through a sparse weight
// operator built once in Initialize.
type Remap struct {
	method RemapMethod
	opts   Options
	op     *Operator
}

// NewRemap creates a Remap mapper. Conservative remapping works on cell
// values only and defaults both locations to face; the other methods default
// to node.
func NewRemap(method RemapMethod, opts Options) (*Remap, error) {
	def := grid.Node
	if method == Conservative {
		def = grid.Face
	}

	if opts.SrcLocation == "" {
		opts.SrcLocation = def
	}

	if opts.DstLocation == "" {
		opts.DstLocation = def
	}

	if opts.Unmapped == "" {
		opts.Unmapped = Ignore
	}

	switch method {
	case Nearest:
	case Bilinear:
		if opts.SrcLocation != grid.Node {
			return nil, fmt.Errorf("%w: bilinear needs node source values",
				ErrInvalidOptions)
		}
	case Conservative:
		if opts.SrcLocation != grid.Face || opts.DstLocation != grid.Face {
			return nil, fmt.Errorf("%w: conservative needs face values",
				ErrInvalidOptions)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	if _, err := ParsePolicy(string(opts.Unmapped)); err != nil {
		return nil, err
	}

	return &Remap{method: method, opts: opts}, nil
}

// Name returns the method name.
func (m *Remap) Name() string {
	return string(m.method)
}

// Centering returns the configured locations.
func (m *Remap) Centering() (dst, src grid.Location) {
	return m.opts.DstLocation, m.opts.SrcLocation
}

// Operator returns the weights built by Initialize, or nil.
func (m *Remap) Operator() *Operator {
	return m.op
}

// Test tells if the meshes carry what the method needs.
func (m *Remap) Test(dst, src *grid.Mesh) bool {
	if dst.Size(m.opts.DstLocation) == 0 || src.Size(m.opts.SrcLocation) == 0 {
		return false
	}

	switch m.method {
	case Bilinear:
		return hasPolygons(src)
	case Conservative:
		return hasPolygons(src) && hasPolygons(dst)
	default:
		return true
	}
}

// Initialize builds the weight operator.
func (m *Remap) Initialize(dst, src *grid.Mesh) error {
	if !m.Test(dst, src) {
		return ErrIncompatibleGrid
	}

	var op *Operator

	switch m.method {
	case Nearest:
		op = m.buildNearest(dst, src)
	case Bilinear:
		op = m.buildBilinear(dst, src)
	case Conservative:
		op = m.buildConservative(dst, src)
	}

	if m.opts.Unmapped == Raise {
		if bad := op.Unmapped(); len(bad) > 0 {
			return fmt.Errorf("%w: %w: %d of %d destination locations",
				ErrRegridBuild, ErrUnmapped, len(bad), op.NumRows)
		}
	}

	m.op = op

	return nil
}

func (m *Remap) buildNearest(dst, src *grid.Mesh) *Operator {
	ix := newIndex(src.Locations(m.opts.SrcLocation))
	pts := dst.Locations(m.opts.DstLocation)
	b := newOperatorBuilder(len(pts), src.Size(m.opts.SrcLocation))

	for _, p := range pts {
		b.addRow([]int{ix.nearest(p)}, []float64{1})
	}

	return b.build()
}

func (m *Remap) buildBilinear(dst, src *grid.Mesh) *Operator {
	loc := newLocator(src)
	pts := dst.Locations(m.opts.DstLocation)
	b := newOperatorBuilder(len(pts), src.NumNodes())

	for _, p := range pts {
		c := loc.cell(p)
		if c < 0 {
			b.addRow(nil, nil)
			continue
		}

		nodes, w, ok := cellWeights(src, c, p)
		if !ok {
			b.addRow(nil, nil)
			continue
		}

		b.addRow(nodes, w)
	}

	return b.build()
}

// buildConservative weighs every source cell by the fraction of the
// destination cell it covers. Candidates are the source cells whose centroid
// is within reach of the destination cell.
func (m *Remap) buildConservative(dst, src *grid.Mesh) *Operator {
	centroids := src.Locations(grid.Face)
	ix := newIndex(centroids)

	srcReach := 0.0
	for c := 0; c < src.NumCells(); c++ {
		srcReach = math.Max(srcReach, radius(src.Polygon(c), centroids[c]))
	}

	b := newOperatorBuilder(dst.NumCells(), src.NumCells())

	for d := 0; d < dst.NumCells(); d++ {
		poly := dst.Polygon(d)
		area := poly.Area()
		center := poly.Centroid()

		if area == 0 {
			b.addRow(nil, nil)
			continue
		}

		cells := ix.within(center, radius(poly, center)+srcReach)
		w := make([]float64, len(cells))

		for i, s := range cells {
			w[i] = overlap(src.Polygon(s), poly) / area
		}

		b.addRow(cells, w)
	}

	return b.build()
}

func radius(p grid.Polygon, center grid.Point) float64 {
	r := 0.0
	for _, v := range p {
		d := v.Sub(center)
		r = math.Max(r, math.Hypot(d.X, d.Y))
	}

	return r
}

// overlap returns the shared area of two cells. Clipping needs a convex clip
// polygon, so a concave destination cell is split into a fan of triangles.
func overlap(src, dst grid.Polygon) float64 {
	switch {
	case dst.IsConvex():
		return grid.OverlapArea(src, dst)
	case src.IsConvex():
		return grid.OverlapArea(dst, src)
	}

	sum := 0.0
	for i := 1; i+1 < len(dst); i++ {
		tri := grid.Polygon{dst[0], dst[i], dst[i+1]}
		sum += grid.OverlapArea(src, tri)
	}

	return sum
}

// Run applies the operator.
func (m *Remap) Run(src, dst []float64, fill float64) ([]float64, error) {
	if m.op == nil {
		return nil, ErrNotInitialized
	}

	dst, err := prepare(src, dst, m.op.NumCols, m.op.NumRows)
	if err != nil {
		return nil, err
	}

	m.op.Apply(src, dst, fill)

	return dst, nil
}

// Finalize releases the operator.
func (m *Remap) Finalize() error {
	m.op = nil
	return nil
}
