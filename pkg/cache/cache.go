// Package cache memoizes upstream results for the registry client.
//
// Two tiers are involved. The first is a [Manager] holding ten named,
// bounded in-memory stores ([Memory]) with access and write expiry. The
// second is an optional byte backend implementing [Cache] ([FileCache],
// [RedisCache] or [NullCache]) that lets several processes share results.
// [Memoize] ties both together and collapses concurrent misses for the
// same key into a single load.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value backend used as the second tier.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
