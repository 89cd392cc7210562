package scatter

import (
	"iter"
	"math"
	"slices"

	"github.com/paulmach/orb"
)

// Point is a canvas-space coordinate: origin top-left, y grows downward.
type Point = orb.Point

// Grid describes how the canvas is partitioned and how many point slots each
// cell receives.
type Grid struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Density int `json:"density"`
}

// Requested returns Columns*Rows*Density, or 0 if any factor is not positive.
// It is the upper bound on the number of points a run can produce. A product
// that does not fit in an int saturates at math.MaxInt.
func (g Grid) Requested() int {
	if g.Columns <= 0 || g.Rows <= 0 || g.Density <= 0 {
		return 0
	}
	n := g.Columns
	for _, f := range []int{g.Rows, g.Density} {
		if n > math.MaxInt/f {
			return math.MaxInt
		}
		n *= f
	}
	return n
}

// Oversized reports whether the grid has more slots than Generate samples.
func (g Grid) Oversized() bool {
	return g.Requested() > MaxSlots
}

// Canvas holds the pixel-space extents of the drawing area.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bound returns the canvas rectangle from (0,0) to (Width,Height).
func (c Canvas) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{c.Width, c.Height}}
}

// Constraints restrict where points may be accepted.
type Constraints struct {
	// Padding is the margin excluded from all four canvas edges.
	Padding float64 `json:"padding"`
	// Interspace is the minimum Euclidean distance between accepted points.
	Interspace float64 `json:"interspace"`
}

// PointSet is the ordered result of one generation run. Order is acceptance
// order. The zero value is an empty set.
type PointSet struct {
	points []Point
}

// NewPointSet copies pts into a new PointSet.
func NewPointSet(pts []Point) PointSet {
	return PointSet{points: slices.Clone(pts)}
}

// Len returns the number of points.
func (s PointSet) Len() int { return len(s.points) }

// At returns the i-th accepted point.
func (s PointSet) At(i int) Point { return s.points[i] }

// Points returns a copy of the points in acceptance order.
func (s PointSet) Points() []Point { return slices.Clone(s.points) }

// All iterates the points in acceptance order. The sequence can be ranged over
// any number of times.
func (s PointSet) All() iter.Seq2[int, Point] {
	return func(yield func(int, Point) bool) {
		for i, p := range s.points {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Bound returns the bounding box of the points. An empty set has a zero Bound.
func (s PointSet) Bound() orb.Bound {
	if len(s.points) == 0 {
		return orb.Bound{}
	}
	return orb.MultiPoint(s.points).Bound()
}

// Result is the outcome of [Generate].
type Result struct {
	Points PointSet

	// Requested is Grid.Requested() for the run.
	Requested int
	// Skipped counts slots that exhausted MaxAttempts without a valid candidate.
	Skipped int
	// Candidates counts every sampled candidate, accepted or not.
	Candidates int
}
