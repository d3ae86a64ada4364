// Package cache stores resolved release data between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per key under the user cache directory (default)
//   - [RedisCache]: a shared Redis instance, for CI fleets resolving the same bucket
//   - [NullCache]: never stores anything (--no-cache)
//
// Values are opaque bytes; callers choose the encoding. Keys should be
// namespaced (e.g. "selenium:latest:<hash>") so backends can be shared.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true on a hit. A miss, including an
	// expired entry, returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
