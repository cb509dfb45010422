// Package cache stores computed layouts and rendered artifacts.
//
// Entries are addressed by keys built from content hashes: the same tree
// laid out with the same spacing always maps to the same layout key, and the
// same layout rendered with the same style and format to the same artifact
// key. A [Keyer] builds those keys; [Hash] and [TreeHash] provide the hashes.
//
// Backends:
//   - [FileCache]: one JSON file per entry, used by the CLI.
//   - [RedisCache]: shared cache for the HTTP server.
//   - [NullCache]: caching disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default lifetimes per entry kind. Layouts and artifacts are pure functions
// of their keys, so they only expire to bound disk usage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
