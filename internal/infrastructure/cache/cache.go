// Package cache provides a byte-level cache store for rendered reports.
package cache

import (
	"context"
	"time"
)

// Store caches opaque byte values with a TTL. Implementations must treat
// misses as (nil, nil) so callers fall through to storage.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Noop is a Store that caches nothing. Used when redis is not configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
