package usecase

import (
	"context"
	"errors"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	svccache "MarketLens/internal/service/cache"
	"MarketLens/internal/services/indicator"
	"MarketLens/internal/services/strategy"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/util"
)

const (
	// Extra calendar days fetched ahead of the requested lookback so the
	// longest rolling window is warm by the first kept row.
	warmupDays = 100

	defaultLookbackDays = 90
	minLookbackDays     = 30
	maxLookbackDays     = 730
)

// SeriesUseCase classifies an identifier, routes it to the matching
// provider, and returns the indicator-augmented series. Provider failures
// never surface as errors; callers get an empty series and the cause stays
// in the logs.
type SeriesUseCase struct {
	krx       repository.BarSource
	yahoo     repository.BarSource
	investing repository.BarSource
	cache     *svccache.SeriesCache
	logger    *applogger.Logger
	now       func() time.Time
}

func NewSeriesUseCase(krx, yahoo, investing repository.BarSource, cache *svccache.SeriesCache, logger *applogger.Logger) *SeriesUseCase {
	return &SeriesUseCase{
		krx:       krx,
		yahoo:     yahoo,
		investing: investing,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// SeriesResult is an augmented series with its routing key and the strategy
// snapshot read from the last row.
type SeriesResult struct {
	Key      models.InstrumentKey
	Days     int
	Series   models.AugmentedSeries
	Strategy *models.StrategySnapshot
}

// Get returns the augmented series for the identifier over the trailing
// lookback window. Lookbacks clamp into [30, 730] with 90 as the default.
func (uc *SeriesUseCase) Get(ctx context.Context, symbol string, days int) (*SeriesResult, error) {
	days = clampDays(days)
	key := models.Classify(symbol)
	if key.Empty() {
		return &SeriesResult{Key: key, Days: days}, nil
	}

	cacheKey := svccache.SeriesKey{Symbol: key.Code, Days: days}
	if cached, ok := uc.cache.Get(ctx, cacheKey); ok {
		return uc.result(key, days, cached), nil
	}

	from, to := util.DayWindow(uc.now(), days+warmupDays)
	bars := uc.fetchBars(ctx, key, from, to)

	augmented := indicator.Augment(bars).Tail(days)
	if augmented.Len() > 0 {
		if err := uc.cache.Put(ctx, cacheKey, augmented); err != nil {
			uc.warn("series cache put failed", applogger.String("key", cacheKey.String()), applogger.Error(err))
		}
	}
	return uc.result(key, days, augmented), nil
}

func (uc *SeriesUseCase) result(key models.InstrumentKey, days int, s models.AugmentedSeries) *SeriesResult {
	return &SeriesResult{
		Key:      key,
		Days:     days,
		Series:   s,
		Strategy: strategy.Read(key, s),
	}
}

// fetchBars dispatches on the instrument kind. Both failure modes, provider
// error and empty window, collapse to an empty series here.
func (uc *SeriesUseCase) fetchBars(ctx context.Context, key models.InstrumentKey, from, to time.Time) models.OhlcvSeries {
	var bars models.OhlcvSeries
	var err error

	switch key.Kind {
	case models.KindDomesticEquity:
		bars, err = uc.krx.FetchDaily(ctx, key.Code, from, to)
		bars = dropPlaceholderRows(bars)
	case models.KindBondYield:
		bars, err = uc.investing.FetchDaily(ctx, "INVESTING:"+key.Code, from, to)
	case models.KindFxPair:
		bars, err = uc.investing.FetchDaily(ctx, key.Code, from, to)
	default:
		bars, err = uc.yahoo.FetchDaily(ctx, key.Code, from, to)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNoData) {
			uc.warn("provider returned no rows",
				applogger.String("symbol", key.Code),
				applogger.String("kind", string(key.Kind)))
		} else {
			uc.error("provider fetch failed",
				applogger.String("symbol", key.Code),
				applogger.String("kind", string(key.Kind)),
				applogger.Error(err))
		}
		return nil
	}
	return bars
}

// dropPlaceholderRows removes bars the local exchange feed pads with a zero
// or negative open, such as pre-listing days.
func dropPlaceholderRows(bars models.OhlcvSeries) models.OhlcvSeries {
	out := make(models.OhlcvSeries, 0, len(bars))
	for _, b := range bars {
		if b.Open <= 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

func clampDays(days int) int {
	switch {
	case days <= 0:
		return defaultLookbackDays
	case days < minLookbackDays:
		return minLookbackDays
	case days > maxLookbackDays:
		return maxLookbackDays
	}
	return days
}

func (uc *SeriesUseCase) warn(msg string, fields ...applogger.Field) {
	if uc.logger != nil {
		uc.logger.Warn(msg, fields...)
	}
}

func (uc *SeriesUseCase) error(msg string, fields ...applogger.Field) {
	if uc.logger != nil {
		uc.logger.Error(msg, fields...)
	}
}
