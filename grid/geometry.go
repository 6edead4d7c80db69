package grid

import "math"

// tolerance is the relative slack used by the on-edge test. It makes points
// on a shared cell edge belong to every cell sharing it.
const tolerance = 1e-10

// A Point is a location in the plane.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// A Polygon is a closed ring of vertices. The last vertex connects back to
// the first one.
type Polygon []Point

// SignedArea is positive for counterclockwise rings.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}

	sum := 0.0
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}

	return sum / 2
}

// Area returns the enclosed area regardless of orientation.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Centroid returns the area centroid. Degenerate rings fall back to the mean
// of their vertices.
func (p Polygon) Centroid() Point {
	a := p.SignedArea()
	if len(p) == 0 {
		return Point{}
	}

	if math.Abs(a) < 1e-300 {
		c := Point{}
		for _, v := range p {
			c.X += v.X
			c.Y += v.Y
		}

		n := float64(len(p))

		return Point{X: c.X / n, Y: c.Y / n}
	}

	cx, cy := 0.0, 0.0
	for i := range p {
		v0 := p[i]
		v1 := p[(i+1)%len(p)]
		f := v0.X*v1.Y - v1.X*v0.Y
		cx += (v0.X + v1.X) * f
		cy += (v0.Y + v1.Y) * f
	}

	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// CCW returns the polygon with counterclockwise orientation. The receiver is
// returned unchanged if it is already counterclockwise.
func (p Polygon) CCW() Polygon {
	if p.SignedArea() >= 0 {
		return p
	}

	r := make(Polygon, len(p))
	for i, v := range p {
		r[len(p)-1-i] = v
	}

	return r
}

// IsConvex tells if every turn of the ring has the same sign.
func (p Polygon) IsConvex() bool {
	if len(p) < 3 {
		return false
	}

	sign := 0.0
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		c := p[(i+2)%len(p)]
		turn := b.Sub(a).Cross(c.Sub(b))

		if turn == 0 {
			continue
		}

		if sign == 0 {
			sign = turn
			continue
		}

		if (turn > 0) != (sign > 0) {
			return false
		}
	}

	return sign != 0
}

// Contains tells if q lies inside the polygon or on its boundary.
func (p Polygon) Contains(q Point) bool {
	if len(p) < 3 {
		return false
	}

	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if onSegment(a, b, q) {
			return true
		}

		if (a.Y > q.Y) != (b.Y > q.Y) {
			x := (b.X-a.X)*(q.Y-a.Y)/(b.Y-a.Y) + a.X
			if q.X < x {
				inside = !inside
			}
		}
	}

	return inside
}

func onSegment(a, b, q Point) bool {
	ab := b.Sub(a)
	aq := q.Sub(a)
	scale := math.Max(1, ab.X*ab.X+ab.Y*ab.Y)

	if math.Abs(ab.Cross(aq)) > tolerance*scale {
		return false
	}

	slack := tolerance * math.Sqrt(scale)

	return q.X >= math.Min(a.X, b.X)-slack && q.X <= math.Max(a.X, b.X)+slack &&
		q.Y >= math.Min(a.Y, b.Y)-slack && q.Y <= math.Max(a.Y, b.Y)+slack
}

// Clip returns the part of subject inside the convex polygon clip, using the
// Sutherland-Hodgman algorithm. The result is empty when they do not overlap.
func Clip(subject, clip Polygon) Polygon {
	if len(subject) < 3 || len(clip) < 3 {
		return nil
	}

	clip = clip.CCW()
	out := append(Polygon(nil), subject...)

	for i := range clip {
		if len(out) == 0 {
			break
		}

		a := clip[i]
		b := clip[(i+1)%len(clip)]
		in := out
		out = make(Polygon, 0, len(in)+1)

		prev := in[len(in)-1]
		prevInside := leftOf(a, b, prev)

		for _, cur := range in {
			curInside := leftOf(a, b, cur)

			switch {
			case curInside && !prevInside:
				out = append(out, intersect(prev, cur, a, b), cur)
			case curInside:
				out = append(out, cur)
			case prevInside:
				out = append(out, intersect(prev, cur, a, b))
			}

			prev, prevInside = cur, curInside
		}
	}

	if len(out) < 3 {
		return nil
	}

	return out
}

func leftOf(a, b, p Point) bool {
	return b.Sub(a).Cross(p.Sub(a)) >= 0
}

// intersect returns where segment pq crosses the line through a and b.
func intersect(p, q, a, b Point) Point {
	ab := b.Sub(a)
	pq := q.Sub(p)

	den := ab.Cross(pq)
	if den == 0 {
		return q
	}

	t := ab.Cross(a.Sub(p)) / den

	return Point{X: p.X + t*pq.X, Y: p.Y + t*pq.Y}
}

// OverlapArea returns the area shared by two polygons. The clip polygon must
// be convex.
func OverlapArea(subject, clip Polygon) float64 {
	return Clip(subject, clip).Area()
}
