package scatter

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// index answers nearest-neighbour queries over accepted points. The tree is
// grown by insertion and never rebalanced.
type index struct {
	tree kdtree.Tree
}

func (ix *index) add(p Point) {
	ix.tree.Insert(kdtree.Point{p[0], p[1]}, false)
}

// clear reports whether p is at least interspace away from every indexed
// point.
func (ix *index) clear(p Point, interspace float64) bool {
	if interspace <= 0 || ix.tree.Root == nil {
		return true
	}
	// kdtree.Point distances are squared.
	_, d2 := ix.tree.Nearest(kdtree.Point{p[0], p[1]})
	return d2 >= interspace*interspace
}
