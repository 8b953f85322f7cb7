package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_http_requests_total",
		Help: "HTTP requests served, by route, method, and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketlens_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"route", "method"})

	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "marketlens_http_in_flight_requests",
		Help: "Requests currently being served.",
	}, []string{"route", "method"})

	httpResponseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketlens_http_response_size_bytes",
		Help:    "Response body size in bytes.",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"route", "method"})
)

// Metrics records per-route Prometheus series for every request. Requests
// slower than slow, and any that end in a 5xx, are also logged. Labels use
// the registered route pattern, so cardinality stays bounded no matter what
// paths clients probe.
func Metrics(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			method := c.Request().Method

			httpInFlight.WithLabelValues(route, method).Inc()
			start := time.Now()

			err := next(c)

			elapsed := time.Since(start)
			httpInFlight.WithLabelValues(route, method).Dec()

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				// The framework's error handler has not run yet;
				// record the status it is about to write.
				status = errorStatus(err)
			}

			httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
			httpResponseBytes.WithLabelValues(route, method).Observe(float64(c.Response().Size))

			if l != nil {
				switch {
				case status >= http.StatusInternalServerError:
					l.Error("http request failed",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.Int("status", status),
						applogger.Duration("elapsed", elapsed))
				case slow > 0 && elapsed >= slow:
					l.Warn("http request slow",
						applogger.String("route", route),
						applogger.String("method", method),
						applogger.Int("status", status),
						applogger.Duration("elapsed", elapsed))
				}
			}
			return err
		}
	}
}

func errorStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
