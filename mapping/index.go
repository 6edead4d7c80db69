package mapping

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/sarchlab/coupler/grid"
)

// site is a point that remembers its position in the input.
type site struct {
	x, y float64
	id   int
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(site)

	switch d {
	case 0:
		return s.x - q.x
	case 1:
		return s.y - q.y
	default:
		panic("illegal dimension")
	}
}

func (s site) Dims() int {
	return 2
}

func (s site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	dx := s.x - q.x
	dy := s.y - q.y

	return dx*dx + dy*dy
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable { return s[i] }
func (s sites) Len() int                       { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int         { return plane{sites: s, Dim: d}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

type plane struct {
	kdtree.Dim
	sites
}

func (p plane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.sites[i].x < p.sites[j].x
	}

	return p.sites[i].y < p.sites[j].y
}

func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.sites[i], p.sites[j] = p.sites[j], p.sites[i]
}

// index answers nearest neighbor queries over a fixed set of points.
type index struct {
	tree *kdtree.Tree
}

func newIndex(pts []grid.Point) *index {
	s := make(sites, len(pts))
	for i, p := range pts {
		s[i] = site{x: p.X, y: p.Y, id: i}
	}

	return &index{tree: kdtree.New(s, false)}
}

func query(p grid.Point) site {
	return site{x: p.X, y: p.Y, id: -1}
}

// nearest returns the id of the closest point, or -1 if the index is empty.
func (ix *index) nearest(p grid.Point) int {
	c, _ := ix.tree.Nearest(query(p))
	if c == nil {
		return -1
	}

	return c.(site).id
}

// nearestN returns the ids of the n closest points, closest first.
func (ix *index) nearestN(p grid.Point, n int) []int {
	k := kdtree.NewNKeeper(n)
	ix.tree.NearestSet(k, query(p))

	return collect(k.Heap)
}

// within returns the ids of every point at most r away, closest first.
func (ix *index) within(p grid.Point, r float64) []int {
	k := kdtree.NewDistKeeper(r * r)
	ix.tree.NearestSet(k, query(p))

	return collect(k.Heap)
}

func collect(h kdtree.Heap) []int {
	found := make([]kdtree.ComparableDist, 0, len(h))
	for _, c := range h {
		if c.Comparable != nil {
			found = append(found, c)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Dist != found[j].Dist {
			return found[i].Dist < found[j].Dist
		}

		return found[i].Comparable.(site).id < found[j].Comparable.(site).id
	})

	ids := make([]int, len(found))
	for i, c := range found {
		ids[i] = c.Comparable.(site).id
	}

	return ids
}

// searchDepth is how many nearby nodes are checked when looking for the cell
// that contains a location.
const searchDepth = 4

// locator finds the cell of a mesh containing a location.
type locator struct {
	mesh  *grid.Mesh
	nodes *index
}

func newLocator(m *grid.Mesh) *locator {
	return &locator{mesh: m, nodes: newIndex(m.Locations(grid.Node))}
}

// cell scans the cells shared by the nodes nearest to p and returns the
// first one containing p, or -1.
func (l *locator) cell(p grid.Point) int {
	seen := make(map[int]bool)

	for _, n := range l.nodes.nearestN(p, searchDepth) {
		for _, c := range l.mesh.PointCells(n) {
			if seen[c] {
				continue
			}

			seen[c] = true

			if l.mesh.CellContains(c, p) {
				return c
			}
		}
	}

	return -1
}
