package scatter

import (
	"math/rand/v2"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MaxAttempts caps the candidates drawn for a single point slot.
const MaxAttempts = 100

// MaxSlots is the largest grid slot count Generate samples. Larger grids are
// reported with every slot skipped and no candidates drawn.
const MaxSlots = 1 << 22

// initialCap bounds the up-front allocation for the accepted points.
const initialCap = 4096

// Source supplies uniform samples in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// AcceptFunc is called once per accepted point, in acceptance order, with the
// point's index in the resulting PointSet.
type AcceptFunc func(i int, p Point)

// Option configures a generation run.
type Option func(*generator)

// WithSource draws candidates from src.
func WithSource(src Source) Option {
	return func(g *generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSeed draws candidates from a PCG generator seeded with seed.
func WithSeed(seed uint64) Option {
	return func(g *generator) {
		g.src = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
}

// WithAcceptFunc registers fn to observe every accepted point as it is placed.
func WithAcceptFunc(fn AcceptFunc) Option {
	return func(g *generator) { g.onAccept = fn }
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

type generator struct {
	src      Source
	onAccept AcceptFunc
}

// Generate fills each grid cell with up to grid.Density points that respect
// the padding and interspace constraints. Cells are visited column-major,
// then row, then slot; every accepted point constrains all later candidates
// regardless of cell. Grids with more than MaxSlots slots are not sampled.
func Generate(grid Grid, canvas Canvas, c Constraints, opts ...Option) Result {
	g := generator{src: globalSource{}}
	for _, opt := range opts {
		opt(&g)
	}

	res := Result{Requested: grid.Requested()}
	if res.Requested == 0 {
		return res
	}
	if grid.Oversized() {
		res.Skipped = res.Requested
		return res
	}

	area, ok := paddedArea(canvas, c.Padding)
	cellW := canvas.Width / float64(grid.Columns)
	cellH := canvas.Height / float64(grid.Rows)
	points := make([]Point, 0, min(res.Requested, initialCap))
	var near index

	for col := 0; col < grid.Columns; col++ {
		for row := 0; row < grid.Rows; row++ {
			origin := orb.Point{float64(col) * cellW, float64(row) * cellH}
			for slot := 0; slot < grid.Density; slot++ {
				p, attempts, placed := g.place(origin, cellW, cellH, area, ok, &near, c.Interspace)
				res.Candidates += attempts
				if !placed {
					res.Skipped++
					continue
				}
				points = append(points, p)
				near.add(p)
				if g.onAccept != nil {
					g.onAccept(len(points)-1, p)
				}
			}
		}
	}

	res.Points = PointSet{points: points}
	return res
}

// place runs rejection sampling for one slot and reports how many candidates
// it drew.
func (g *generator) place(origin Point, cellW, cellH float64, area orb.Bound, hasArea bool, accepted *index, interspace float64) (Point, int, bool) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		x := origin[0] + g.src.Float64()*cellW
		y := origin[1] + g.src.Float64()*cellH
		p := orb.Point{x, y}

		if !hasArea || !area.Contains(p) {
			continue
		}
		if accepted.clear(p, interspace) {
			return p, attempt, true
		}
	}
	return Point{}, MaxAttempts, false
}

// paddedArea returns the closed rectangle where points may land. It reports
// false when padding consumes half of either extent or more.
func paddedArea(c Canvas, padding float64) (orb.Bound, bool) {
	if 2*padding >= c.Width || 2*padding >= c.Height {
		return orb.Bound{}, false
	}
	return orb.Bound{
		Min: orb.Point{padding, padding},
		Max: orb.Point{c.Width - padding, c.Height - padding},
	}, true
}

// spaced reports whether p is at least interspace away from every point in
// accepted. It is the brute-force counterpart of index.clear.
func spaced(p Point, accepted []Point, interspace float64) bool {
	if interspace <= 0 {
		return true
	}
	for _, q := range accepted {
		if planar.Distance(p, q) < interspace {
			return false
		}
	}
	return true
}

// Valid reports whether every point in s lies inside the padded canvas and
// keeps interspace distance from every other point.
func Valid(s PointSet, canvas Canvas, c Constraints) bool {
	for i, p := range s.points {
		if p[0] < c.Padding || p[0] > canvas.Width-c.Padding ||
			p[1] < c.Padding || p[1] > canvas.Height-c.Padding {
			return false
		}
		if !spaced(p, s.points[:i], c.Interspace) {
			return false
		}
	}
	return true
}
