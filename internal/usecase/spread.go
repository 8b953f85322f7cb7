package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	svccache "MarketLens/internal/service/cache"
	"MarketLens/internal/services/risk"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/util"
)

const (
	defaultSpreadSeries = "BAMLH0A0HYM2"
	defaultSpreadWindow = 90

	// Observations arrive once per business day, so the fifth-from-last
	// observation is roughly one week old.
	weekAgoOffset = 5
)

// SpreadUseCase serves the macro credit-spread view: the recent high-yield
// spread series and the risk state classified from its weekly change.
type SpreadUseCase struct {
	source   repository.SpreadSource
	cache    *svccache.SpreadCache
	seriesID string
	window   int
	logger   *applogger.Logger
	now      func() time.Time
}

func NewSpreadUseCase(source repository.SpreadSource, cache *svccache.SpreadCache, seriesID string, windowDays int, logger *applogger.Logger) *SpreadUseCase {
	if seriesID == "" {
		seriesID = defaultSpreadSeries
	}
	if windowDays <= 0 {
		windowDays = defaultSpreadWindow
	}
	return &SpreadUseCase{
		source:   source,
		cache:    cache,
		seriesID: seriesID,
		window:   windowDays,
		logger:   logger,
		now:      time.Now,
	}
}

// Report fetches the spread window and classifies it. Unlike the series
// path, an upstream failure here is an error; the caller decides how to
// degrade.
func (uc *SpreadUseCase) Report(ctx context.Context) (*models.RiskReport, error) {
	cacheKey := svccache.SpreadKey{SeriesID: uc.seriesID, Days: uc.window}
	if cached, ok := uc.cache.Get(ctx, cacheKey); ok {
		return &cached, nil
	}

	from, _ := util.DayWindow(uc.now(), uc.window)
	points, err := uc.source.FetchObservations(ctx, uc.seriesID, from)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Error("spread fetch failed",
				applogger.String("series_id", uc.seriesID),
				applogger.Error(err))
		}
		return nil, fmt.Errorf("spread %s: %w", uc.seriesID, err)
	}

	report := buildReport(uc.seriesID, points)
	if len(points) > 0 {
		if err := uc.cache.Put(ctx, cacheKey, *report); err != nil && uc.logger != nil {
			uc.logger.Warn("spread cache put failed",
				applogger.String("key", cacheKey.String()),
				applogger.Error(err))
		}
	}
	return report, nil
}

func buildReport(seriesID string, points []models.SpreadPoint) *models.RiskReport {
	rows := make([]models.SpreadRow, len(points))
	for i, p := range points {
		rows[i] = models.SpreadRow{Date: util.FormatDate(p.Date), Value: p.Value}
	}

	n := len(points)
	if n == 0 {
		return &models.RiskReport{
			SeriesID:   seriesID,
			Points:     rows,
			Assessment: risk.Classify(math.NaN(), math.NaN()),
		}
	}

	current := points[n-1].Value
	weekAgo := current
	if n >= weekAgoOffset {
		weekAgo = points[n-weekAgoOffset].Value
	}
	change := current - weekAgo

	return &models.RiskReport{
		SeriesID:   seriesID,
		Points:     rows,
		Current:    &current,
		WeekAgo:    &weekAgo,
		Change:     &change,
		Assessment: risk.Classify(current, weekAgo),
	}
}
