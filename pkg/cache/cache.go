// Package cache stores fetched gt payloads and decode summaries.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// Keys come from a [Keyer] so that every caller agrees on the layout:
//
//	fetch:<sha256 of url>              raw bytes as downloaded
//	summary:<sha256 of content, opts>  JSON summary of a decoded graph
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Default entry lifetimes.
const (
	// FetchTTL bounds how long downloaded files are reused. Netzschleuder
	// datasets change rarely.
	FetchTTL = 7 * 24 * time.Hour

	// SummaryTTL is the lifetime of decode summaries. They are keyed by
	// content hash and never go stale, so this only bounds disk use.
	SummaryTTL = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// FetchKey keys the raw bytes downloaded from url.
	FetchKey(url string) string

	// SummaryKey keys the summary of a decoded payload with the given
	// content hash.
	SummaryKey(contentHash string, opts SummaryKeyOpts) string
}

// SummaryKeyOpts lists the decode options that change a summary.
type SummaryKeyOpts struct {
	Strict bool `json:"strict,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FetchKey returns "fetch:" followed by the hash of url.
func (DefaultKeyer) FetchKey(url string) string {
	return hashKey("fetch", url)
}

// SummaryKey returns "summary:" followed by the hash of the content hash
// and options.
func (DefaultKeyer) SummaryKey(contentHash string, opts SummaryKeyOpts) string {
	return hashKey("summary", contentHash, opts)
}

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache where every Get misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var (
	_ Keyer = DefaultKeyer{}
	_ Cache = NullCache{}
)
