package cache

// ScopedKeyer prefixes every key of an inner keyer. A Redis database shared
// with other tools keeps plotline entries under their own namespace:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "plotline:")
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

// FrameKey returns the prefixed frame key.
func (k *ScopedKeyer) FrameKey(sceneHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(sceneHash, opts)
}

// GraphKey returns the prefixed diagram key.
func (k *ScopedKeyer) GraphKey(sceneHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(sceneHash, opts)
}
