// Package cache provides key/value caching for image metadata.
//
// Decoding an image header to learn its intrinsic size costs a network round
// trip per source. The content loader stores the decoded dimensions under a
// key derived from the source URL so that repeated layouts of the same feed
// (CLI reruns, server requests, resize passes after a restart) skip the fetch.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON files under a directory (CLI default)
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer]; wrap one in [NewScopedKeyer] to isolate
// tenants sharing a backend.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or expired entry;
	// a miss is never reported as an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultImageTTL is how long decoded image dimensions stay cached.
const DefaultImageTTL = 7 * 24 * time.Hour

// Keyer generates cache keys.
type Keyer interface {
	// ImageKey returns the key for the decoded dimensions of an image source.
	ImageKey(src string) string

	// LayoutKey returns the key for a computed layout of a feed.
	LayoutKey(feedHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds the parameters that change a computed layout.
type LayoutKeyOpts struct {
	Columns   int     `json:"columns"`
	Width     float64 `json:"width"`
	ItemWidth float64 `json:"item_width,omitempty"`
	GapX      float64 `json:"gap_x"`
	GapY      float64 `json:"gap_y"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImageKey returns "image:<sha256(src)>".
func (DefaultKeyer) ImageKey(src string) string {
	return hashKey("image", src)
}

// LayoutKey returns "layout:<sha256(feedHash, opts)>".
func (DefaultKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", feedHash, opts)
}
