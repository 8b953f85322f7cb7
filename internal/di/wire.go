//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Cache stores
		ProvideCacheService,
		ProvideSeriesCache,
		ProvideSpreadCache,

		// Upstream sources
		ProvideKRXSource,
		ProvideYahooSource,
		ProvideInvestingSource,
		ProvideFREDSource,

		// Use cases
		ProvideSeriesUseCase,
		ProvideOverviewUseCase,
		ProvideSpreadUseCase,

		// HTTP surface
		ProvideLimiter,
		ProvideMarketHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
