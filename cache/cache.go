package cache

import (
	"context"
	"time"
)

// Cache is an abstraction layer for cache operations. Get returns nil, nil
// on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
