package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	svccache "MarketLens/internal/service/cache"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	pkgcache "MarketLens/pkg/cache"
	xlogger "MarketLens/pkg/logger"
)

type stubBarSource struct {
	bars models.OhlcvSeries
	err  error
}

func (s *stubBarSource) FetchDaily(context.Context, string, time.Time, time.Time) (models.OhlcvSeries, error) {
	return s.bars, s.err
}

type stubSpreadSource struct {
	points []models.SpreadPoint
	err    error
}

func (s *stubSpreadSource) FetchObservations(context.Context, string, time.Time) ([]models.SpreadPoint, error) {
	return s.points, s.err
}

func genBars(n int) models.OhlcvSeries {
	bars := make(models.OhlcvSeries, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = models.OhlcvBar{
			Date:   base.AddDate(0, 0, i),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: 1000,
		}
	}
	return bars
}

type handlerFixture struct {
	echo   *echo.Echo
	krx    *stubBarSource
	yahoo  *stubBarSource
	spread *stubSpreadSource
}

func newFixture(t *testing.T, rateCapacity float64) *handlerFixture {
	t.Helper()

	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(time.Hour))
	t.Cleanup(func() { _ = store.Close() })

	f := &handlerFixture{
		krx:    &stubBarSource{bars: genBars(140)},
		yahoo:  &stubBarSource{bars: genBars(140)},
		spread: &stubSpreadSource{points: spreadPoints(3.0, 3.1, 3.2, 3.3, 3.4, 3.5)},
	}

	series := usecase.NewSeriesUseCase(f.krx, f.yahoo, &stubBarSource{}, svccache.NewSeriesCache(store, time.Hour, nil), log)
	overview := usecase.NewOverviewUseCase(series, []usecase.OverviewEntry{
		{Symbol: "005930", Label: "Samsung"},
		{Symbol: "^GSPC", Label: "S&P 500"},
	}, 60, 2, log)
	spread := usecase.NewSpreadUseCase(f.spread, svccache.NewSpreadCache(store, time.Hour, nil), "", 0, log)

	h := NewMarketEchoHandler(log, series, overview, spread, ratelimit.New(), rateCapacity, 0.001)

	e := echo.New()
	h.RegisterRoutes(e)
	f.echo = e
	return f
}

func spreadPoints(values ...float64) []models.SpreadPoint {
	points := make([]models.SpreadPoint, len(values))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = models.SpreadPoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return points
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doGet(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec, env
}

func TestSeriesEndpoint(t *testing.T) {
	f := newFixture(t, 100)

	rec, env := doGet(t, f.echo, "/api/v1/series?symbol=005930&days=30")
	if rec.Code != http.StatusOK || env.Status != http.StatusOK {
		t.Fatalf("code = %d, envelope status = %d", rec.Code, env.Status)
	}

	var res models.SeriesResponse
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if res.Symbol != "005930" || res.Kind != models.KindDomesticEquity {
		t.Fatalf("response = %+v", res)
	}
	if res.Days != 30 || len(res.Rows) != 30 {
		t.Fatalf("days = %d, rows = %d", res.Days, len(res.Rows))
	}
	if res.Strategy == nil {
		t.Fatal("strategy snapshot missing")
	}
	last := res.Rows[len(res.Rows)-1]
	if last.MA20 == nil || last.RSI14 == nil {
		t.Fatalf("indicators missing on last row: %+v", last)
	}
}

func TestSeriesEndpointDefaultDays(t *testing.T) {
	f := newFixture(t, 100)

	_, env := doGet(t, f.echo, "/api/v1/series?symbol=TSLA")
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}
	var res models.SeriesResponse
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if res.Days != 90 {
		t.Fatalf("days = %d, want default 90", res.Days)
	}
}

func TestSeriesEndpointValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing symbol", "/api/v1/series"},
		{"days below range", "/api/v1/series?symbol=TSLA&days=5"},
		{"days above range", "/api/v1/series?symbol=TSLA&days=9999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 100)
			_, env := doGet(t, f.echo, tt.target)
			if env.Status != http.StatusBadRequest {
				t.Fatalf("envelope status = %d, want 400", env.Status)
			}
		})
	}
}

func TestOverviewEndpoint(t *testing.T) {
	f := newFixture(t, 100)

	_, env := doGet(t, f.echo, "/api/v1/overview")
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}

	var res models.OverviewResponse
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(res.Quotes) != 2 {
		t.Fatalf("quotes = %d, want 2", len(res.Quotes))
	}
	for _, q := range res.Quotes {
		if q.Error != "" || q.Close == nil {
			t.Fatalf("quote degraded unexpectedly: %+v", q)
		}
	}
}

func TestRiskEndpoint(t *testing.T) {
	f := newFixture(t, 100)

	_, env := doGet(t, f.echo, "/api/v1/risk")
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", env.Status)
	}

	var report models.RiskReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if report.SeriesID != "BAMLH0A0HYM2" {
		t.Fatalf("series id = %q", report.SeriesID)
	}
	if report.Current == nil || *report.Current != 3.5 {
		t.Fatalf("current = %v", report.Current)
	}
	if report.Assessment.State == "" {
		t.Fatal("assessment missing")
	}
}

func TestRiskEndpointUpstreamFailure(t *testing.T) {
	f := newFixture(t, 100)
	f.spread.points = nil
	f.spread.err = errors.New("connection reset")

	_, env := doGet(t, f.echo, "/api/v1/risk")
	if env.Status != http.StatusBadGateway {
		t.Fatalf("envelope status = %d, want 502", env.Status)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	f := newFixture(t, 2)

	for i := 0; i < 2; i++ {
		_, env := doGet(t, f.echo, "/api/v1/overview")
		if env.Status != http.StatusOK {
			t.Fatalf("request %d: envelope status = %d", i, env.Status)
		}
	}
	_, env := doGet(t, f.echo, "/api/v1/overview")
	if env.Status != http.StatusTooManyRequests {
		t.Fatalf("envelope status = %d, want 429", env.Status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}
