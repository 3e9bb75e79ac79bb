// Package cache provides the read-through cache for merchant shipping configuration.
// Only configuration reads are cached; computed shipping options never are.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value cache with per-entry TTL
type Store interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
