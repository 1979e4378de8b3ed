// Package cache defines the expiring key-value store boundary used for
// cached records, with in-memory, Redis, and BadgerDB implementations.
// Values are opaque byte strings; serialization belongs to the caller.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is an expiring key-value store. Every entry carries a TTL; a TTL of
// zero or less is rejected rather than interpreted as "no expiry".
type Cache interface {
	// Get returns the value stored under key, or found=false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key, expiring after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. It reports whether an entry existed.
	Delete(ctx context.Context, key string) (bool, error)
}

// ErrInvalidTTL is returned by Set when ttl is zero or negative.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

// DefaultQueryTimeout bounds individual operations on I/O-backed caches
// (Redis). Prevents indefinite hangs on unresponsive storage.
const DefaultQueryTimeout = 5 * time.Second

// DefaultMaxEntries bounds the in-memory cache.
const DefaultMaxEntries = 4096

type config struct {
	maxEntries   int
	queryTimeout time.Duration
}

// Option configures a Cache implementation.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{
		maxEntries:   DefaultMaxEntries,
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxEntries caps the number of entries held by the in-memory cache.
// Ignored by other backends.
func WithMaxEntries(n int) Option {
	return func(c *config) { c.maxEntries = n }
}

// WithQueryTimeout sets the per-operation timeout for I/O-backed caches.
// Ignored by the in-memory backend.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *config) { c.queryTimeout = d }
}
