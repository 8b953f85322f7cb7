// Package cache stores computed results as JSON strings in the shared cache
// backend. String storage keeps the memory, Redis, and layered backends
// interchangeable: every backend can round-trip a string value.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	pkgcache "MarketLens/pkg/cache"
)

const defaultSeriesTTL = time.Hour

// SeriesKey identifies one cached augmented series.
type SeriesKey struct {
	Symbol string
	Days   int
}

func (k SeriesKey) String() string {
	return pkgcache.GenerateKeyWithParams("series", k.Symbol, k.Days)
}

// SeriesCache caches augmented series per symbol and window.
type SeriesCache struct {
	store   pkgcache.Service
	ttl     time.Duration
	metrics repository.Metrics
}

func NewSeriesCache(store pkgcache.Service, ttl time.Duration, m repository.Metrics) *SeriesCache {
	if ttl <= 0 {
		ttl = defaultSeriesTTL
	}
	return &SeriesCache{store: store, ttl: ttl, metrics: m}
}

// Get returns the cached series for key, or false on miss.
func (c *SeriesCache) Get(ctx context.Context, key SeriesKey) (models.AugmentedSeries, bool) {
	var raw string
	if err := c.store.Get(ctx, key.String(), &raw); err != nil {
		c.recordMiss()
		return models.AugmentedSeries{}, false
	}

	var out models.AugmentedSeries
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// Corrupt entry: drop it so the next fill rewrites it.
		_ = c.store.Delete(ctx, key.String())
		c.recordMiss()
		return models.AugmentedSeries{}, false
	}

	c.recordHit()
	return out, true
}

// Put stores the series under key for the cache TTL.
func (c *SeriesCache) Put(ctx context.Context, key SeriesKey, s models.AugmentedSeries) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key.String(), string(raw), c.ttl)
}

func (c *SeriesCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit("series")
	}
}

func (c *SeriesCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss("series")
	}
}
