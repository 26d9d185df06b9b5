package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a small key/value store with per-key expiry. Values are stored
// as JSON so that any implementation can hold arbitrary structs.
type Cache interface {
	// Get unmarshals the value stored under key into dest.
	// It returns ErrMiss when the key does not exist.
	Get(ctx context.Context, key string, dest any) error

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Exists reports whether key is present and not expired.
	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}
