package cache

import (
	"context"
	"encoding/json"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	pkgcache "MarketLens/pkg/cache"
)

// The spread series updates once per business day upstream, so its reports
// can sit in cache far longer than price series.
const defaultSpreadTTL = 6 * time.Hour

// SpreadKey identifies one cached risk report.
type SpreadKey struct {
	SeriesID string
	Days     int
}

func (k SpreadKey) String() string {
	return pkgcache.GenerateKeyWithParams("spread", k.SeriesID, k.Days)
}

// SpreadCache caches assembled risk reports per series and window.
type SpreadCache struct {
	store   pkgcache.Service
	ttl     time.Duration
	metrics repository.Metrics
}

func NewSpreadCache(store pkgcache.Service, ttl time.Duration, m repository.Metrics) *SpreadCache {
	if ttl <= 0 {
		ttl = defaultSpreadTTL
	}
	return &SpreadCache{store: store, ttl: ttl, metrics: m}
}

// Get returns the cached report for key, or false on miss.
func (c *SpreadCache) Get(ctx context.Context, key SpreadKey) (models.RiskReport, bool) {
	var raw string
	if err := c.store.Get(ctx, key.String(), &raw); err != nil {
		c.recordMiss()
		return models.RiskReport{}, false
	}

	var out models.RiskReport
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		_ = c.store.Delete(ctx, key.String())
		c.recordMiss()
		return models.RiskReport{}, false
	}

	c.recordHit()
	return out, true
}

// Put stores the report under key for the cache TTL.
func (c *SpreadCache) Put(ctx context.Context, key SpreadKey, r models.RiskReport) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key.String(), string(raw), c.ttl)
}

func (c *SpreadCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit("spread")
	}
}

func (c *SpreadCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss("spread")
	}
}
