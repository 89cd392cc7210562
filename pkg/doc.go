// Package pkg provides the core libraries for Stipple point scattering.
//
// # Overview
//
// Stipple splits a rectangular canvas into a grid of cells, gives every cell
// a number of point slots, and fills each slot by rejection sampling: a
// candidate is kept only if it lies inside the padded canvas and keeps a
// minimum distance from every point accepted so far. The resulting set is
// exported as a DXF drawing or previewed as SVG, PNG, PDF or JSON.
//
// # Architecture
//
// The typical data flow through Stipple:
//
//	Options (flags, profile, form)
//	         ↓
//	    [scatter] package (grid rejection sampling)
//	         ↓
//	    [dxf] / [render] packages (DXF drawing, previews)
//	         ↓
//	    files, HTTP responses, terminal preview
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/stipple/pkg/dxf"
//	    "github.com/matzehuels/stipple/pkg/scatter"
//	)
//
//	grid := scatter.Grid{Columns: 8, Rows: 6, Density: 25}
//	canvas := scatter.Canvas{Width: 800, Height: 600}
//	res := scatter.Generate(grid, canvas, scatter.Constraints{Padding: 10, Interspace: 5},
//	    scatter.WithSeed(42))
//	data := dxf.Export(canvas, res.Points)
//
// # Main Packages
//
// [scatter] - Grid rejection sampling with padding and interspace
// constraints. Each slot gets at most [scatter.MaxAttempts] candidates.
//
// [dxf] - Minimal DXF writer (frame lines plus one POINT per accepted point)
// and a reader used to inspect exported drawings.
//
// [render] - Preview formats: SVG via svgo, PNG and PDF via gonum/plot, an
// interactive go-echarts HTML chart, and a JSON point list.
//
// [pipeline] - Options, validation and the generate → render runner shared by
// the CLI, the web server and the TUI. Seeded runs are cached.
//
// ## Infrastructure
//
// [cache] - Content-addressed caching of point sets and artifacts (file and
// null backends).
//
// [session] - Per-visitor state for the web server with memory, file, SQLite
// and Redis stores.
//
// [config] - TOML or YAML profiles holding default parameters.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every entry point.
//
// # Testing
//
//	go test ./...                        # All tests
//	STIPPLE_TEST_REDIS_ADDR=localhost:6379 go test ./pkg/session/...
//
// [scatter]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/scatter
// [dxf]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/dxf
// [render]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stipple/pkg/errors
package pkg
