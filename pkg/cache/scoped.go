package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by release so
// entries written by an older generator are never served by a newer one.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PointsKey generates a prefixed key for point set caching.
func (k *ScopedKeyer) PointsKey(opts PointsKeyOpts) string {
	return k.prefix + k.inner.PointsKey(opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(pointsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(pointsHash, opts)
}
