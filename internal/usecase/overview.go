package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"MarketLens/internal/domain/models"
	applogger "MarketLens/pkg/logger"
)

const (
	defaultOverviewDays        = 60
	defaultOverviewConcurrency = 4
)

// seriesGetter is the slice of SeriesUseCase the overview depends on.
type seriesGetter interface {
	Get(ctx context.Context, symbol string, days int) (*SeriesResult, error)
}

// OverviewEntry is one instrument on the overview grid.
type OverviewEntry struct {
	Symbol string
	Label  string
}

// OverviewUseCase fetches the overview instruments in parallel and reports
// last close plus one-day change for each. A failed instrument degrades to
// an error cell; it never fails the whole snapshot.
type OverviewUseCase struct {
	series      seriesGetter
	entries     []OverviewEntry
	days        int
	concurrency int
	logger      *applogger.Logger
}

func NewOverviewUseCase(series seriesGetter, entries []OverviewEntry, days, concurrency int, logger *applogger.Logger) *OverviewUseCase {
	if days <= 0 {
		days = defaultOverviewDays
	}
	if concurrency <= 0 {
		concurrency = defaultOverviewConcurrency
	}
	return &OverviewUseCase{
		series:      series,
		entries:     entries,
		days:        days,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Snapshot returns one quote per configured instrument, in configuration
// order.
func (uc *OverviewUseCase) Snapshot(ctx context.Context) ([]models.OverviewQuote, error) {
	quotes := make([]models.OverviewQuote, len(uc.entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, entry := range uc.entries {
		g.Go(func() error {
			quotes[i] = uc.quote(gctx, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (uc *OverviewUseCase) quote(ctx context.Context, entry OverviewEntry) models.OverviewQuote {
	q := models.OverviewQuote{Symbol: entry.Symbol, Label: entry.Label}

	res, err := uc.series.Get(ctx, entry.Symbol, uc.days)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Warn("overview fetch failed",
				applogger.String("symbol", entry.Symbol),
				applogger.Error(err))
		}
		q.Error = "fetch failed"
		return q
	}

	n := res.Series.Len()
	if n == 0 {
		q.Error = "no data"
		return q
	}

	last := res.Series.Bars[n-1].Close
	q.Close = &last
	if n >= 2 {
		prev := res.Series.Bars[n-2].Close
		if prev != 0 {
			pct := (last - prev) / prev * 100
			q.ChangePct = &pct
		}
	}
	return q
}
