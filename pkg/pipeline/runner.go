package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/observability"
	"github.com/matzehuels/stipple/pkg/scatter"
)

// Cache key types reported to observability hooks.
const (
	keyTypePoints   = "points"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, server and TUI all use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
//
// Only seeded runs touch the cache: an unseeded run is random by request
// and must never be served from a previous result.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetRenderDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	gen, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Generation = gen
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Requested = gen.Requested
	result.Stats.Accepted = gen.Points.Len()
	result.Stats.Skipped = gen.Skipped
	result.Stats.Candidates = gen.Candidates
	result.CacheInfo.GenerateHit = genHit

	r.Logger.Info("generated points",
		"accepted", gen.Points.Len(),
		"requested", gen.Requested,
		"skipped", gen.Skipped,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, opts, gen.Points)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	if hash, err := HashPoints(gen.Points); err == nil {
		result.PointsHash = hash
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo runs the generator, serving seeded runs from the
// cache when possible, and reports whether the result was a cache hit.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options, genOpts ...scatter.Option) (scatter.Result, bool, error) {
	if err := opts.Validate(); err != nil {
		return scatter.Result{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return scatter.Result{}, false, err
	}

	// An accept callback must observe every point, so skip the cache lookup.
	useCache := opts.Reproducible() && len(genOpts) == 0
	cacheKey := r.Keyer.PointsKey(opts.PointsKeyOpts())

	if useCache && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			res, err := UnmarshalResult(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypePoints)
				r.Logger.Debug("points cache hit", "seed", opts.Seed)
				return res, true, nil
			}
			// If deserialization fails, fall through to regenerate
		}
		observability.Cache().OnCacheMiss(ctx, keyTypePoints)
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.TotalPoints())
	start := time.Now()
	res := Generate(opts, genOpts...)
	hooks.OnGenerateComplete(ctx, res.Points.Len(), res.Skipped, time.Since(start))

	if opts.Reproducible() {
		if data, err := MarshalResult(res); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPoints); err == nil {
				observability.Cache().OnCacheSet(ctx, keyTypePoints, len(data))
			} else {
				r.Logger.Warn("cache points", "error", err)
			}
		}
	}

	return res, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options, genOpts ...scatter.Option) (scatter.Result, error) {
	res, _, err := r.GenerateWithCacheInfo(ctx, opts, genOpts...)
	return res, err
}

// RenderWithCacheInfo renders points in every requested format. Artifacts of
// seeded runs are cached; the cache is only reported as hit when every
// format was found.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options, points scatter.PointSet) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	if !opts.Reproducible() {
		artifacts, err := Render(opts, points)
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return artifacts, false, err
	}

	pointsHash, err := HashPoints(points)
	if err != nil {
		return nil, false, fmt.Errorf("hash points for cache key: %w", err)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(pointsHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
	}

	rendered, err := Render(opts, points)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(pointsHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options, points scatter.PointSet) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, opts, points)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
