package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Keeping it an interface allows swapping implementations (Redis, in-memory).
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// Returns (found, error):
	// - found = true: cache hit, dest is populated
	// - found = false: cache miss, dest is untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
