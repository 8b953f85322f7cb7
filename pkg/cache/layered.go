package cache

import (
	"context"
	"time"
)

// Redis hits are copied into the inner layer for this long. Kept short so
// the inner layer can never outlive the Redis entry by much.
const layeredPromoteTTL = 5 * time.Minute

// LayeredCache fronts Redis with a small in-process layer. Writes go
// through to both; reads prefer the inner layer and promote Redis hits.
type LayeredCache struct {
	inner *MemoryCache
	outer *RedisCache
}

// NewLayeredCache creates the two-level cache over a connected Redis client.
func NewLayeredCache(outer *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{MemoryMaxSize: 1000}
	for _, opt := range opts {
		opt(cfg)
	}
	return &LayeredCache{
		inner: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		outer: outer,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.outer.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.inner.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.inner.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.outer.Get(ctx, key, dest); err != nil {
		return err
	}
	if sp, ok := dest.(*string); ok {
		_ = lc.inner.Set(ctx, key, *sp, layeredPromoteTTL)
	}
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.inner.Delete(ctx, keys...)
	return lc.outer.Delete(ctx, keys...)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.inner.Close()
	return lc.outer.Close()
}
