package cache

// ScopedKeyer wraps a Keyer with a prefix, so several tenants or servers can
// share one Redis instance without key collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "feyndraw:")
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

// DiagramKey generates a prefixed key for canonical text caching.
func (k *ScopedKeyer) DiagramKey(sourceHash string) string {
	return k.prefix + k.inner.DiagramKey(sourceHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diagramHash, opts)
}
