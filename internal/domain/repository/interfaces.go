package repository

import (
	"context"
	"errors"
	"time"

	"MarketLens/internal/domain/models"
)

// ErrNoData marks an adapter call that succeeded but produced zero rows.
// Callers distinguish it from transport or parse failures so the quiet
// fallback and the genuine bug stay separable in logs.
var ErrNoData = errors.New("provider: no data")

// BarSource fetches daily bars from one upstream provider. Implementations
// return bars with unique ascending dates inside [from, to], ErrNoData when
// the window is empty, and a wrapped provider error otherwise.
type BarSource interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) (models.OhlcvSeries, error)
}

// SpreadSource fetches the macro credit-spread observations from the start
// date onward, ascending, with non-numeric observations dropped.
type SpreadSource interface {
	FetchObservations(ctx context.Context, seriesID string, from time.Time) ([]models.SpreadPoint, error)
}

// Metrics records operational counters for fetches and caches.
type Metrics interface {
	RecordFetch(provider, symbol string)
	RecordFetchError(provider string)
	RecordFetchLatency(provider string, seconds float64)
	RecordCacheHit(name string)
	RecordCacheMiss(name string)
}
