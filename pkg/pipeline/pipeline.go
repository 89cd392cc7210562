// Package pipeline provides the generate → render pipeline for stipple.
//
// The CLI, the HTTP server and the TUI all drive generation through this
// package so that defaults, validation and caching behave the same
// everywhere.
//
// # Stages
//
//  1. Generate: run the grid point generator ([scatter.Generate])
//  2. Render: encode the point set in one or more formats ([render.Render])
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Seed = 7
//	opts.Formats = []string{"dxf", "svg"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	drawing := result.Artifacts["dxf"]
//
// Untrusted string input (HTML forms, query strings) goes through
// [ParseValues] or [ParseForm], which fail fast on anything that is not a
// clean number.
package pipeline

import (
	"time"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/render"
	"github.com/matzehuels/stipple/pkg/scatter"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, server, TUI and config
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600

	// DefaultColumns is the default number of grid columns.
	DefaultColumns = 8

	// DefaultRows is the default number of grid rows.
	DefaultRows = 6

	// DefaultDensity is the default number of point slots per cell.
	DefaultDensity = 25

	// DefaultPadding is the default edge margin in pixels.
	DefaultPadding = 10.0

	// DefaultInterspace is the default minimum distance between points.
	DefaultInterspace = 5.0

	// DefaultSeed asks for an unseeded, non-reproducible run.
	DefaultSeed = uint64(0)
)

// DefaultFormats is used when no output format is requested.
var DefaultFormats = []string{render.FormatDXF}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one generation run.
// This struct supports JSON serialization for API requests and sessions.
type Options struct {
	// Canvas
	Width  int `json:"width"`
	Height int `json:"height"`

	// Grid
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Density int `json:"density"`

	// Placement
	Padding    float64 `json:"padding"`
	Interspace float64 `json:"interspace"`

	// Seed makes a run reproducible. Zero means random.
	Seed uint64 `json:"seed,omitempty"`

	// Formats to render. Defaults to DefaultFormats.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cached results for seeded runs.
	Refresh bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Generation is the raw generator result.
	Generation scatter.Result

	// PointsHash is HashPoints of the generated set; artifact cache keys use
	// the same hash.
	PointsHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and count information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Points is shorthand for r.Generation.Points.
func (r *Result) Points() scatter.PointSet {
	return r.Generation.Points
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Requested    int
	Accepted     int
	Skipped      int
	Candidates   int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the point set came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Columns:    DefaultColumns,
		Rows:       DefaultRows,
		Density:    DefaultDensity,
		Padding:    DefaultPadding,
		Interspace: DefaultInterspace,
		Seed:       DefaultSeed,
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// Validate checks that every numeric input is finite and non-negative and
// that every requested format is known. The grid may hold at most
// scatter.MaxSlots point slots. Zero extents, zero grid dimensions
// and oversized padding are accepted; they simply produce an empty set.
func (o *Options) Validate() error {
	ints := []struct {
		name string
		v    int
	}{
		{"width", o.Width},
		{"height", o.Height},
		{"columns", o.Columns},
		{"rows", o.Rows},
		{"density", o.Density},
	}
	for _, f := range ints {
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s: %d must not be negative", f.name, f.v)
		}
	}
	if grid := o.Grid(); grid.Oversized() {
		return errors.New(errors.ErrCodeInvalidInput, "columns × rows × density: %d × %d × %d exceeds %d point slots",
			grid.Columns, grid.Rows, grid.Density, scatter.MaxSlots)
	}

	floats := []struct {
		name string
		v    float64
	}{
		{"padding", o.Padding},
		{"interspace", o.Interspace},
	}
	for _, f := range floats {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s: %v must not be negative", f.name, f.v)
		}
	}

	return render.ValidateFormats(o.Formats)
}

// SetRenderDefaults fills in the output formats if none were requested.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
}

// TotalPoints is the derived columns × rows × density shown next to the
// inputs. It is the maximum number of points a run can draw.
func (o *Options) TotalPoints() int {
	return o.Grid().Requested()
}

// Grid returns the generator grid.
func (o *Options) Grid() scatter.Grid {
	return scatter.Grid{Columns: o.Columns, Rows: o.Rows, Density: o.Density}
}

// Canvas returns the generator canvas.
func (o *Options) Canvas() scatter.Canvas {
	return scatter.Canvas{Width: float64(o.Width), Height: float64(o.Height)}
}

// Constraints returns the generator placement constraints.
func (o *Options) Constraints() scatter.Constraints {
	return scatter.Constraints{Padding: o.Padding, Interspace: o.Interspace}
}

// Reproducible reports whether the run is seeded and therefore cacheable.
func (o *Options) Reproducible() bool {
	return o.Seed != 0
}

// PointsKeyOpts returns cache key options for a generated point set.
func (o *Options) PointsKeyOpts() cache.PointsKeyOpts {
	return cache.PointsKeyOpts{
		Width:      float64(o.Width),
		Height:     float64(o.Height),
		Columns:    o.Columns,
		Rows:       o.Rows,
		Density:    o.Density,
		Padding:    o.Padding,
		Interspace: o.Interspace,
		Seed:       o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  float64(o.Width),
		Height: float64(o.Height),
	}
}
