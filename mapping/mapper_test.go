package mapping

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coupler/grid"
)

var _ = Describe("NearestVal", func() {
	It("should reproduce values on identical grids", func() {
		r := rand.New(rand.NewSource(1))
		pts := make([]grid.Point, 200)
		values := make([]float64, len(pts))

		for i := range pts {
			pts[i] = grid.Point{X: r.Float64() * 100, Y: r.Float64() * 100}
			values[i] = r.NormFloat64()
		}

		m := NewNearestVal()
		Expect(m.Initialize(points(pts...), points(pts...))).To(Succeed())

		out, err := m.Run(values, nil, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(values))
	})

	It("should take the nearest source value", func() {
		src := points(grid.Point{X: 0, Y: 0}, grid.Point{X: 10, Y: 0})
		dst := points(grid.Point{X: 1, Y: 1}, grid.Point{X: 9, Y: -2}, grid.Point{X: 4.9, Y: 0})

		m := NewNearestVal()
		Expect(m.Initialize(dst, src)).To(Succeed())

		out, err := m.Run([]float64{1, 2}, nil, -1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]float64{1, 2, 1}))
	})

	It("should write into the given buffer", func() {
		src := points(grid.Point{X: 0, Y: 0})
		dst := points(grid.Point{X: 1, Y: 1}, grid.Point{X: 2, Y: 2})
		buf := []float64{7, 7}

		m := NewNearestVal()
		Expect(m.Initialize(dst, src)).To(Succeed())

		out, err := m.Run([]float64{3}, buf, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]float64{3, 3}))
		Expect(&out[0]).To(BeIdenticalTo(&buf[0]))
	})

	It("should fail before initialize and after finalize", func() {
		m := NewNearestVal()

		_, err := m.Run([]float64{1}, nil, 0)
		Expect(err).To(MatchError(ErrNotInitialized))

		Expect(m.Initialize(points(grid.Point{}), points(grid.Point{}))).To(Succeed())
		Expect(m.Finalize()).To(Succeed())

		_, err = m.Run([]float64{1}, nil, 0)
		Expect(err).To(MatchError(ErrNotInitialized))
	})

	It("should check sizes", func() {
		m := NewNearestVal()
		Expect(m.Initialize(points(grid.Point{}), points(grid.Point{}))).To(Succeed())

		_, err := m.Run([]float64{1, 2}, nil, 0)
		Expect(err).To(MatchError(ErrSizeMismatch))

		_, err = m.Run([]float64{1}, make([]float64, 3), 0)
		Expect(err).To(MatchError(ErrSizeMismatch))
	})
})

var _ = Describe("CellToPoint", func() {
	var (
		src *grid.Mesh
		dst *grid.Mesh
		m   *CellToPoint
	)

	BeforeEach(func() {
		src = uniform(3, 3, 1)
		dst = points(
			grid.Point{X: 0.5, Y: 0.5},
			grid.Point{X: 1.5, Y: 1.5},
			grid.Point{X: 5, Y: 5},
			grid.Point{X: 0.25, Y: 1.75},
		)
		m = NewCellToPoint()
	})

	It("should need cells on the source grid", func() {
		Expect(m.Test(dst, src)).To(BeTrue())
		Expect(m.Test(src, dst)).To(BeFalse())
		Expect(m.Initialize(src, dst)).To(MatchError(ErrIncompatibleGrid))
	})

	It("should take the value of the containing cell", func() {
		Expect(m.Initialize(dst, src)).To(Succeed())

		out, err := m.Run([]float64{10, 11, 12, 13}, nil, -999)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]float64{10, 13, -999, 12}))
		Expect(m.Unmapped()).To(Equal([]int{2}))
	})

	It("should always fill unmapped points", func() {
		Expect(m.Initialize(dst, src)).To(Succeed())
		buf := []float64{1, 2, 3, 4}

		for _, fill := range []float64{-1, -2} {
			buf[2] = 12345
			_, err := m.Run([]float64{10, 11, 12, 13}, buf, fill)

			Expect(err).NotTo(HaveOccurred())
			Expect(buf[2]).To(Equal(fill))
		}
	})

	It("should locate points in cells away from the nearest node", func() {
		coarse, err := grid.NewMesh(grid.Descriptor{
			Type:         grid.Unstructured,
			X:            []float64{0, 10, 10, 0, 4.9},
			Y:            []float64{0, 0, 10, 10, 10.5},
			Connectivity: []int{0, 1, 2, 3},
			Offset:       []int{4},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(m.Initialize(points(grid.Point{X: 5, Y: 9.9}), coarse)).To(Succeed())
		Expect(m.Unmapped()).To(BeEmpty())
	})
})

var _ = Describe("PointToCell", func() {
	It("should average the points in each cell", func() {
		dst := uniform(2, 3, 1)
		src := points(
			grid.Point{X: 0.2, Y: 0.2},
			grid.Point{X: 0.8, Y: 0.6},
			grid.Point{X: 3, Y: 3},
		)

		m := NewPointToCell()
		Expect(m.Test(dst, src)).To(BeTrue())
		Expect(m.Initialize(dst, src)).To(Succeed())

		out, err := m.Run([]float64{1, 2, 100}, nil, -1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]float64{1.5, -1}))
	})
})

var _ = Describe("Remap", func() {
	Context("bilinear", func() {
		targets := []grid.Point{
			{X: 0.3, Y: 0.7}, {X: 1.9, Y: 0.1}, {X: 1, Y: 1}, {X: 0, Y: 2}, {X: 1.25, Y: 1.6},
		}

		It("should reproduce linear fields on rectangles", func() {
			src := uniform(3, 3, 1)
			assertLinear(src, points(targets...))
		})

		It("should reproduce linear fields on distorted quadrilaterals", func() {
			src, err := grid.NewMesh(grid.Descriptor{
				Type:  grid.StructuredQuadrilateral,
				Shape: []int{3, 3},
				X:     []float64{0, 1.1, 2, -0.1, 0.9, 2.1, 0, 1.2, 2},
				Y:     []float64{0, -0.1, 0, 1, 1.2, 0.9, 2, 2.1, 2},
			})
			Expect(err).NotTo(HaveOccurred())

			assertLinear(src, points(grid.Point{X: 0.5, Y: 0.5}, grid.Point{X: 1.5, Y: 1.5}))
		})

		It("should reproduce linear fields on mixed cells", func() {
			src, err := grid.NewMesh(grid.Descriptor{
				Type:         grid.Unstructured,
				X:            []float64{0, 2, 2, 0, 3, 3, 1},
				Y:            []float64{0, 0, 2, 2, 1, 3, 3.5},
				Connectivity: []int{0, 1, 2, 3, 1, 4, 2, 2, 4, 5, 6, 3},
				Offset:       []int{4, 7, 12},
			})
			Expect(err).NotTo(HaveOccurred())

			assertLinear(src, points(
				grid.Point{X: 1, Y: 1}, grid.Point{X: 2.5, Y: 1},
				grid.Point{X: 2.6, Y: 2.4}, grid.Point{X: 1, Y: 2.2},
			))
		})

		It("should fail on unmapped points when raising", func() {
			m, err := NewRemap(Bilinear, Options{Unmapped: Raise})
			Expect(err).NotTo(HaveOccurred())

			err = m.Initialize(points(grid.Point{X: 9, Y: 9}), uniform(2, 2, 1))
			Expect(err).To(MatchError(ErrRegridBuild))
			Expect(err).To(MatchError(ErrUnmapped))
		})

		It("should fill unmapped points when ignoring", func() {
			m, err := NewRemap(Bilinear, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Initialize(points(grid.Point{X: 9, Y: 9}), uniform(2, 2, 1))).To(Succeed())

			out, err := m.Run([]float64{1, 2, 3, 4}, []float64{42}, -5)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]float64{-5}))
		})
	})

	Context("conservative", func() {
		It("should average fine cells into coarse cells", func() {
			src := uniform(5, 5, 0.5)
			dst := uniform(3, 3, 1)
			values := make([]float64, src.NumCells())
			for i := range values {
				values[i] = float64(i)
			}

			m, err := NewRemap(Conservative, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Initialize(dst, src)).To(Succeed())

			out, err := m.Run(values, nil, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out[0]).To(BeNumerically("~", 2.5, 1e-12))
			Expect(out[3]).To(BeNumerically("~", 12.5, 1e-12))

			Expect(integral(dst, out)).To(BeNumerically("~", integral(src, values), 1e-9))
		})

		It("should conserve the integral onto a rotated mesh", func() {
			src := uniform(4, 4, 1)
			dst, err := grid.NewMesh(grid.Descriptor{
				Type:         grid.Unstructured,
				X:            []float64{0, 3, 3, 0},
				Y:            []float64{0, 0, 3, 3},
				Connectivity: []int{0, 1, 2, 0, 2, 3},
				Offset:       []int{3, 6},
			})
			Expect(err).NotTo(HaveOccurred())

			values := make([]float64, src.NumCells())
			for i := range values {
				values[i] = float64(i % 3)
			}

			m, err := NewRemap(Conservative, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Initialize(dst, src)).To(Succeed())

			out, err := m.Run(values, nil, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(integral(dst, out)).To(BeNumerically("~", integral(src, values), 1e-9))
		})

		It("should refuse node values", func() {
			_, err := NewRemap(Conservative, Options{SrcLocation: grid.Node})
			Expect(err).To(MatchError(ErrInvalidOptions))
		})
	})

	Context("nearest", func() {
		It("should map cell centers to nodes", func() {
			m, err := NewRemap(Nearest, Options{SrcLocation: grid.Face})
			Expect(err).NotTo(HaveOccurred())
			dstLoc, srcLoc := m.Centering()
			Expect(dstLoc).To(Equal(grid.Node))
			Expect(srcLoc).To(Equal(grid.Face))

			src := uniform(3, 3, 1)
			dst := points(grid.Point{X: 0.4, Y: 0.4}, grid.Point{X: 1.6, Y: 0.4})
			Expect(m.Initialize(dst, src)).To(Succeed())
			Expect(m.Operator().NumEntries()).To(Equal(2))

			out, err := m.Run([]float64{5, 6, 7, 8}, nil, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]float64{5, 6}))
		})
	})

	It("should release the operator", func() {
		m, err := NewRemap(Nearest, Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Initialize(points(grid.Point{}), points(grid.Point{}))).To(Succeed())

		Expect(m.Finalize()).To(Succeed())
		Expect(m.Operator()).To(BeNil())

		_, err = m.Run([]float64{1}, nil, 0)
		Expect(err).To(MatchError(ErrNotInitialized))
	})
})

var _ = Describe("Selection", func() {
	It("should create mappers by name", func() {
		for _, name := range []string{
			MethodNearestVal, MethodCellToPoint, MethodPointToCell,
			MethodNearest, MethodBilinear, MethodConservative,
		} {
			m, err := New(name, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Name()).To(Equal(name))
		}

		_, err := New("spline", Options{})
		Expect(err).To(MatchError(ErrUnknownMethod))
	})

	It("should find a compatible mapper", func() {
		cells := uniform(3, 3, 1)
		cloud := points(grid.Point{X: 1, Y: 1})

		m, err := Find(cloud, cells)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal(MethodCellToPoint))

		m, err = Find(cells, cloud)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal(MethodPointToCell))

		m, err = Find(cloud, cloud)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal(MethodNearestVal))
	})

	It("should respect value locations", func() {
		cells := uniform(3, 3, 1)

		m, err := FindAt(cells, cells, grid.Node, grid.Node)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal(MethodNearestVal))

		m, err = FindAt(cells, cells, grid.Face, grid.Face)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal(MethodConservative))

		_, err = FindAt(points(grid.Point{}), points(grid.Point{}), grid.Face, grid.Node)
		Expect(err).To(MatchError(ErrIncompatibleGrid))
	})
})

var _ = Describe("Operator", func() {
	It("should apply weights row by row", func() {
		b := newOperatorBuilder(3, 2)
		b.addRow([]int{0, 1}, []float64{0.25, 0.75})
		b.addRow(nil, nil)
		b.addRow([]int{1, 0}, []float64{1, 0})
		op := b.build()

		dst := make([]float64, 3)
		op.Apply([]float64{4, 8}, dst, -1)

		Expect(dst).To(Equal([]float64{7, -1, 8}))
		Expect(op.Unmapped()).To(Equal([]int{1}))
		Expect(op.NumEntries()).To(Equal(3))
	})
})

func assertLinear(src, dst *grid.Mesh) {
	m, err := NewRemap(Bilinear, Options{Unmapped: Raise})
	Expect(err).NotTo(HaveOccurred())
	Expect(m.Initialize(dst, src)).To(Succeed())

	values := make([]float64, src.NumNodes())
	for i := range values {
		values[i] = linear(src.Node(i))
	}

	out, err := m.Run(values, nil, 0)
	Expect(err).NotTo(HaveOccurred())

	for i := range out {
		Expect(out[i]).To(BeNumerically("~", linear(dst.Node(i)), 1e-9))
	}
}

func integral(m *grid.Mesh, values []float64) float64 {
	sum := 0.0
	for c := 0; c < m.NumCells(); c++ {
		sum += values[c] * m.Area(c)
	}

	return sum
}
