package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/render"
	"github.com/matzehuels/stipple/pkg/scatter"
)

// Generate runs the grid point generator for opts. Seeded options produce a
// reproducible set; extra generator options (for example an accept
// callback) are applied after the seed.
func Generate(opts Options, genOpts ...scatter.Option) scatter.Result {
	var all []scatter.Option
	if opts.Seed != 0 {
		all = append(all, scatter.WithSeed(opts.Seed))
	}
	all = append(all, genOpts...)
	return scatter.Generate(opts.Grid(), opts.Canvas(), opts.Constraints(), all...)
}

// Render generates output artifacts for points in the requested formats.
func Render(opts Options, points scatter.PointSet) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	return render.RenderAll(opts.Formats, opts.Canvas(), points)
}

// storedResult is the cache encoding of a generator result.
type storedResult struct {
	Points     []scatter.Point `json:"points"`
	Requested  int             `json:"requested"`
	Skipped    int             `json:"skipped"`
	Candidates int             `json:"candidates"`
}

// HashPoints is the content hash of a point set. It depends on the points
// alone; run statistics do not change it.
func HashPoints(points scatter.PointSet) (string, error) {
	data, err := json.Marshal(points.Points())
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// MarshalResult serializes a generator result for caching.
func MarshalResult(res scatter.Result) ([]byte, error) {
	return json.Marshal(storedResult{
		Points:     res.Points.Points(),
		Requested:  res.Requested,
		Skipped:    res.Skipped,
		Candidates: res.Candidates,
	})
}

// UnmarshalResult is the inverse of MarshalResult.
func UnmarshalResult(data []byte) (scatter.Result, error) {
	var s storedResult
	if err := json.Unmarshal(data, &s); err != nil {
		return scatter.Result{}, fmt.Errorf("decode cached points: %w", err)
	}
	return scatter.Result{
		Points:     scatter.NewPointSet(s.Points),
		Requested:  s.Requested,
		Skipped:    s.Skipped,
		Candidates: s.Candidates,
	}, nil
}
