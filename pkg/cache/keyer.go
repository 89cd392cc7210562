package cache

// PointsKeyOpts holds every input that determines a seeded point set.
type PointsKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	Density    int     `json:"density"`
	Padding    float64 `json:"padding"`
	Interspace float64 `json:"interspace"`
	Seed       uint64  `json:"seed"`
}

// ArtifactKeyOpts holds the rendering inputs for a cached artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Keyer derives cache keys.
type Keyer interface {
	// PointsKey returns the key for a generated point set.
	PointsKey(opts PointsKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from the point set
	// whose content hash is pointsHash.
	ArtifactKey(pointsHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PointsKey implements Keyer.
func (DefaultKeyer) PointsKey(opts PointsKeyOpts) string {
	return hashKey("points", opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(pointsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", pointsHash, opts)
}
