package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The HTTP server uses it to keep each API key's cached layouts apart while
// image dimensions stay shared.
//
// Example usage:
//
//	tenant := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
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

// ImageKey generates a prefixed key for image dimensions.
func (k *ScopedKeyer) ImageKey(src string) string {
	return k.prefix + k.inner.ImageKey(src)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(feedHash, opts)
}
