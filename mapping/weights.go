package mapping

import (
	"math"

	"github.com/sarchlab/coupler/grid"
)

const (
	newtonIterations = 20
	newtonTolerance  = 1e-12
)

// barycentric returns the weights of a, b and c at p. Degenerate triangles
// return ok false.
func barycentric(a, b, c, p grid.Point) (w [3]float64, ok bool) {
	ab := b.Sub(a)
	ac := c.Sub(a)

	den := ab.Cross(ac)
	if den == 0 {
		return w, false
	}

	ap := p.Sub(a)
	wb := ap.Cross(ac) / den
	wc := ab.Cross(ap) / den

	return [3]float64{1 - wb - wc, wb, wc}, true
}

// inverseBilinear solves for the local coordinates of p in the quadrilateral
// q0 q1 q2 q3 and returns the bilinear weights of its corners.
func inverseBilinear(q grid.Polygon, p grid.Point) (w [4]float64, ok bool) {
	s, t := 0.5, 0.5

	for range newtonIterations {
		x := (1-s)*(1-t)*q[0].X + s*(1-t)*q[1].X + s*t*q[2].X + (1-s)*t*q[3].X
		y := (1-s)*(1-t)*q[0].Y + s*(1-t)*q[1].Y + s*t*q[2].Y + (1-s)*t*q[3].Y
		rx, ry := x-p.X, y-p.Y

		if math.Hypot(rx, ry) < newtonTolerance*(1+math.Hypot(p.X, p.Y)) {
			ok = true
			break
		}

		dxs := (1-t)*(q[1].X-q[0].X) + t*(q[2].X-q[3].X)
		dys := (1-t)*(q[1].Y-q[0].Y) + t*(q[2].Y-q[3].Y)
		dxt := (1-s)*(q[3].X-q[0].X) + s*(q[2].X-q[1].X)
		dyt := (1-s)*(q[3].Y-q[0].Y) + s*(q[2].Y-q[1].Y)

		det := dxs*dyt - dxt*dys
		if det == 0 {
			return w, false
		}

		s -= (rx*dyt - ry*dxt) / det
		t -= (ry*dxs - rx*dys) / det
	}

	if !ok {
		return w, false
	}

	s = clamp01(s)
	t = clamp01(t)

	return [4]float64{(1 - s) * (1 - t), s * (1 - t), s * t, (1 - s) * t}, true
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// cellWeights returns the interpolation weights of the nodes of a cell at p:
// barycentric on triangles, bilinear on quadrilaterals and barycentric on a
// fan of triangles otherwise.
func cellWeights(m *grid.Mesh, c int, p grid.Point) (nodes []int, w []float64, ok bool) {
	nodes = m.CellNodes(c)
	poly := m.Polygon(c)

	switch len(nodes) {
	case 3:
		b, ok := barycentric(poly[0], poly[1], poly[2], p)
		if !ok {
			return nil, nil, false
		}

		return nodes, b[:], true
	case 4:
		if b, ok := inverseBilinear(poly, p); ok {
			return nodes, b[:], true
		}
	}

	return fanWeights(nodes, poly, p)
}

func fanWeights(nodes []int, poly grid.Polygon, p grid.Point) ([]int, []float64, bool) {
	for i := 1; i+1 < len(poly); i++ {
		tri := grid.Polygon{poly[0], poly[i], poly[i+1]}
		if !tri.Contains(p) {
			continue
		}

		b, ok := barycentric(tri[0], tri[1], tri[2], p)
		if !ok {
			continue
		}

		return []int{nodes[0], nodes[i], nodes[i+1]}, b[:], true
	}

	return nil, nil, false
}
