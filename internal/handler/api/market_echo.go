package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	svcmetrics "MarketLens/internal/service/metrics"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// MarketEchoHandler serves the market data API: augmented series, the
// overview grid, and the macro risk view.
type MarketEchoHandler struct {
	logger   *xlogger.Logger
	series   *usecase.SeriesUseCase
	overview *usecase.OverviewUseCase
	spread   *usecase.SpreadUseCase

	limiter      *ratelimit.Limiter
	rateCapacity float64
	rateRefill   float64
}

func NewMarketEchoHandler(
	logger *xlogger.Logger,
	series *usecase.SeriesUseCase,
	overview *usecase.OverviewUseCase,
	spread *usecase.SpreadUseCase,
	limiter *ratelimit.Limiter,
	rateCapacity, rateRefill float64,
) *MarketEchoHandler {
	return &MarketEchoHandler{
		logger:       logger,
		series:       series,
		overview:     overview,
		spread:       spread,
		limiter:      limiter,
		rateCapacity: rateCapacity,
		rateRefill:   rateRefill,
	}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	svcmetrics.Register()

	e.GET("/health", h.Health)

	g := e.Group("/api/v1")
	g.Use(h.rateLimit)
	g.GET("/series", h.Series)
	g.GET("/overview", h.Overview)
	g.GET("/risk", h.Risk)
}

// rateLimit throttles per client IP across the API group.
func (h *MarketEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP(), h.rateCapacity, h.rateRefill) {
			return xhttp.TooManyRequestsResponse(c)
		}
		return next(c)
	}
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MarketEchoHandler) Series(c echo.Context) error {
	start := time.Now()
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.series.Get(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		svcmetrics.RequestErrors.WithLabelValues("series").Inc()
		h.logger.Error("series usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	svcmetrics.RequestLatency.WithLabelValues("series").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, models.SeriesResponse{
		Symbol:   res.Key.Normalized,
		Kind:     res.Key.Kind,
		Code:     res.Key.Code,
		Days:     res.Days,
		Rows:     res.Series.Rows(),
		Strategy: res.Strategy,
	})
}

func (h *MarketEchoHandler) Overview(c echo.Context) error {
	start := time.Now()

	quotes, err := h.overview.Snapshot(c.Request().Context())
	if err != nil {
		svcmetrics.RequestErrors.WithLabelValues("overview").Inc()
		h.logger.Error("overview usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	svcmetrics.RequestLatency.WithLabelValues("overview").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, models.OverviewResponse{Quotes: quotes})
}

func (h *MarketEchoHandler) Risk(c echo.Context) error {
	start := time.Now()

	report, err := h.spread.Report(c.Request().Context())
	if err != nil {
		svcmetrics.RequestErrors.WithLabelValues("risk").Inc()
		h.logger.Error("risk usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("credit spread source unavailable").WithError(err))
	}

	svcmetrics.RequestLatency.WithLabelValues("risk").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, report)
}
