package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments can share one Redis database without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "gtreader:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to inner's keys.
// A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FetchKey returns the prefixed fetch key.
func (k *ScopedKeyer) FetchKey(url string) string {
	return k.prefix + k.inner.FetchKey(url)
}

// SummaryKey returns the prefixed summary key.
func (k *ScopedKeyer) SummaryKey(contentHash string, opts SummaryKeyOpts) string {
	return k.prefix + k.inner.SummaryKey(contentHash, opts)
}
