package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgcache "MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

// App owns the HTTP server lifecycle and the shared cache store. Everything
// else is request-scoped and lives behind the handler.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	cacheStore pkgcache.Service
	httpServer *xhttp.Server
}

// New creates the application from its wired dependencies.
func New(cfg *config.Config, logger *applogger.Logger, handler xhttp.Handler, cacheStore pkgcache.Service) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		handler:    handler,
		cacheStore: cacheStore,
	}
}

// Run starts the HTTP server and blocks until an interrupt or SIGTERM
// arrives, then shuts down gracefully.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled),
		xhttp.WithLogger(a.logger),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// shutdown stops the server within the configured grace period and releases
// the cache store.
func (a *App) shutdown(ctx context.Context) error {
	grace := a.cfg.Server.ShutdownTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if closer, ok := a.cacheStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
