package di

import (
	"fmt"

	"MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	svccache "MarketLens/internal/service/cache"
	"MarketLens/internal/service/fred"
	"MarketLens/internal/service/investing"
	"MarketLens/internal/service/krx"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/service/yahoo"
	"MarketLens/internal/usecase"
	pkgcache "MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	"MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// Fallbacks used when the config leaves a provider base URL empty. The
// aggregator has no public endpoint; its default points at the local
// sidecar.
const (
	defaultKRXBaseURL       = "https://fchart.stock.naver.com"
	defaultYahooBaseURL     = "https://query1.finance.yahoo.com"
	defaultFREDBaseURL      = "https://api.stlouisfed.org"
	defaultInvestingBaseURL = "http://localhost:8090"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheService creates the cache store selected by configuration:
// plain in-process memory, or memory layered over Redis.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return pkgcache.NewLayeredCache(redisCache,
			pkgcache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize),
		), nil
	default:
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize),
		), nil
	}
}

// ProvideSeriesCache creates the augmented series cache.
func ProvideSeriesCache(store pkgcache.Service, cfg *config.Config, m repository.Metrics) *svccache.SeriesCache {
	return svccache.NewSeriesCache(store, cfg.Series.CacheTTL, m)
}

// ProvideSpreadCache creates the credit-spread report cache.
func ProvideSpreadCache(store pkgcache.Service, cfg *config.Config, m repository.Metrics) *svccache.SpreadCache {
	return svccache.NewSpreadCache(store, cfg.Spread.CacheTTL, m)
}

// ProvideKRXSource creates the Korean exchange bar source.
func ProvideKRXSource(cfg *config.Config, m repository.Metrics) *krx.Client {
	baseURL := cfg.Providers.KRX.BaseURL
	if baseURL == "" {
		baseURL = defaultKRXBaseURL
	}
	return krx.New(baseURL, cfg.Providers.KRX.Timeout, m)
}

// ProvideYahooSource creates the global market bar source.
func ProvideYahooSource(cfg *config.Config, m repository.Metrics) *yahoo.Client {
	baseURL := cfg.Providers.Yahoo.BaseURL
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return yahoo.New(baseURL, cfg.Providers.Yahoo.Timeout, m)
}

// ProvideInvestingSource creates the yield and FX aggregator source.
func ProvideInvestingSource(cfg *config.Config, m repository.Metrics) *investing.Client {
	baseURL := cfg.Providers.Investing.BaseURL
	if baseURL == "" {
		baseURL = defaultInvestingBaseURL
	}
	return investing.New(baseURL, cfg.Providers.Investing.Timeout, m)
}

// ProvideFREDSource creates the macro spread source.
func ProvideFREDSource(cfg *config.Config, m repository.Metrics) *fred.Client {
	baseURL := cfg.Providers.FRED.BaseURL
	if baseURL == "" {
		baseURL = defaultFREDBaseURL
	}
	return fred.New(baseURL, cfg.Providers.FRED.APIKey, cfg.Providers.FRED.Timeout, m)
}

// ProvideLimiter creates the per-client rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideSeriesUseCase creates the series use case.
func ProvideSeriesUseCase(
	krxSource *krx.Client,
	yahooSource *yahoo.Client,
	investingSource *investing.Client,
	cache *svccache.SeriesCache,
	l *logger.Logger,
) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(krxSource, yahooSource, investingSource, cache, l)
}

// ProvideOverviewUseCase creates the overview use case from the configured
// instrument list.
func ProvideOverviewUseCase(series *usecase.SeriesUseCase, cfg *config.Config, l *logger.Logger) *usecase.OverviewUseCase {
	entries := make([]usecase.OverviewEntry, len(cfg.Overview.Symbols))
	for i, s := range cfg.Overview.Symbols {
		entries[i] = usecase.OverviewEntry{Symbol: s.Symbol, Label: s.Label}
	}
	return usecase.NewOverviewUseCase(series, entries, cfg.Overview.Days, cfg.Overview.Concurrency, l)
}

// ProvideSpreadUseCase creates the macro risk use case.
func ProvideSpreadUseCase(source *fred.Client, cache *svccache.SpreadCache, cfg *config.Config, l *logger.Logger) *usecase.SpreadUseCase {
	return usecase.NewSpreadUseCase(source, cache, cfg.Spread.SeriesID, cfg.Spread.WindowDays, l)
}

// ProvideMarketHandler creates the API handler. A non-positive rate limit
// capacity disables throttling.
func ProvideMarketHandler(
	l *logger.Logger,
	series *usecase.SeriesUseCase,
	overview *usecase.OverviewUseCase,
	spread *usecase.SpreadUseCase,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *api.MarketEchoHandler {
	if cfg.RateLimit.Capacity <= 0 {
		limiter = nil
	}
	return api.NewMarketEchoHandler(l, series, overview, spread, limiter, cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *logger.Logger, handler *api.MarketEchoHandler, store pkgcache.Service) *server.App {
	return server.New(cfg, l, handler, store)
}
