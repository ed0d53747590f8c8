package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving separate
// namespaces to callers sharing one backend, such as several preview
// servers on one Redis.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "preview:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CircuitKey(sourceHash string, opts CircuitKeyOpts) string {
	return k.prefix + k.inner.CircuitKey(sourceHash, opts)
}

func (k *ScopedKeyer) StoryboardKey(scene, circuitHash string) string {
	return k.prefix + k.inner.StoryboardKey(scene, circuitHash)
}

func (k *ScopedKeyer) ArtifactKey(storyboardHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(storyboardHash, opts)
}
