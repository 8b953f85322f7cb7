package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	svccache "MarketLens/internal/service/cache"
	pkgcache "MarketLens/pkg/cache"
	"MarketLens/pkg/util"
)

type fakeBarSource struct {
	calls  int
	symbol string
	from   time.Time
	to     time.Time
	bars   models.OhlcvSeries
	err    error
}

func (f *fakeBarSource) FetchDaily(_ context.Context, symbol string, from, to time.Time) (models.OhlcvSeries, error) {
	f.calls++
	f.symbol, f.from, f.to = symbol, from, to
	return f.bars, f.err
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

var testNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func newTestSeriesUC(t *testing.T) (*SeriesUseCase, *fakeBarSource, *fakeBarSource, *fakeBarSource) {
	t.Helper()
	krx := &fakeBarSource{}
	yahoo := &fakeBarSource{}
	investing := &fakeBarSource{}

	store := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(time.Hour))
	t.Cleanup(func() { _ = store.Close() })

	uc := NewSeriesUseCase(krx, yahoo, investing, svccache.NewSeriesCache(store, time.Hour, nil), nil)
	uc.now = func() time.Time { return testNow }
	return uc, krx, yahoo, investing
}

func TestGetRoutesDomestic(t *testing.T) {
	uc, krx, yahoo, investing := newTestSeriesUC(t)
	krx.bars = genBars(140)

	res, err := uc.Get(context.Background(), "005930.KS", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if krx.calls != 1 || yahoo.calls != 0 || investing.calls != 0 {
		t.Fatalf("calls krx=%d yahoo=%d investing=%d", krx.calls, yahoo.calls, investing.calls)
	}
	if krx.symbol != "005930" {
		t.Fatalf("krx symbol = %q", krx.symbol)
	}

	wantFrom, wantTo := util.DayWindow(testNow, 30+warmupDays)
	if !krx.from.Equal(wantFrom) || !krx.to.Equal(wantTo) {
		t.Fatalf("window = %v..%v, want %v..%v", krx.from, krx.to, wantFrom, wantTo)
	}

	if res.Key.Kind != models.KindDomesticEquity {
		t.Fatalf("kind = %v", res.Key.Kind)
	}
	if res.Days != 30 {
		t.Fatalf("days = %d", res.Days)
	}
	if res.Series.Len() != 30 {
		t.Fatalf("series len = %d, want trailing 30", res.Series.Len())
	}
	if res.Strategy == nil {
		t.Fatal("strategy snapshot missing")
	}
}

func TestGetRoutesBondYield(t *testing.T) {
	uc, _, _, investing := newTestSeriesUC(t)
	investing.bars = genBars(40)

	res, err := uc.Get(context.Background(), "kr10yt=rr", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if investing.symbol != "INVESTING:KR10YT=RR" {
		t.Fatalf("investing symbol = %q", investing.symbol)
	}
	if res.Key.Kind != models.KindBondYield {
		t.Fatalf("kind = %v", res.Key.Kind)
	}
}

func TestGetRoutesFxPair(t *testing.T) {
	uc, _, _, investing := newTestSeriesUC(t)
	investing.bars = genBars(40)

	res, err := uc.Get(context.Background(), "USD/KRW", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if investing.symbol != "USD/KRW" {
		t.Fatalf("investing symbol = %q", investing.symbol)
	}
	if res.Key.Kind != models.KindFxPair {
		t.Fatalf("kind = %v", res.Key.Kind)
	}
}

func TestGetRoutesGeneric(t *testing.T) {
	uc, _, yahoo, _ := newTestSeriesUC(t)
	yahoo.bars = genBars(40)

	res, err := uc.Get(context.Background(), "^gspc", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if yahoo.symbol != "^GSPC" {
		t.Fatalf("yahoo symbol = %q", yahoo.symbol)
	}
	if res.Key.Kind != models.KindGeneric {
		t.Fatalf("kind = %v", res.Key.Kind)
	}
}

func TestGetBlankSymbol(t *testing.T) {
	uc, krx, yahoo, investing := newTestSeriesUC(t)

	res, err := uc.Get(context.Background(), "   ", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if krx.calls+yahoo.calls+investing.calls != 0 {
		t.Fatal("blank symbol must not hit a provider")
	}
	if res.Series.Len() != 0 {
		t.Fatalf("series len = %d, want 0", res.Series.Len())
	}
	if res.Strategy != nil {
		t.Fatal("strategy should be nil for an empty series")
	}
}

func TestGetProviderFailure(t *testing.T) {
	uc, _, yahoo, _ := newTestSeriesUC(t)
	yahoo.err = errors.New("connection refused")

	res, err := uc.Get(context.Background(), "TSLA", 30)
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if res.Series.Len() != 0 {
		t.Fatalf("series len = %d, want 0", res.Series.Len())
	}
}

func TestGetNoDataFromProvider(t *testing.T) {
	uc, _, yahoo, _ := newTestSeriesUC(t)
	yahoo.err = repository.ErrNoData

	res, err := uc.Get(context.Background(), "TSLA", 30)
	if err != nil {
		t.Fatalf("empty window must not surface: %v", err)
	}
	if res.Series.Len() != 0 {
		t.Fatalf("series len = %d, want 0", res.Series.Len())
	}

	// Empty windows are not cached; the next call asks the provider again.
	if _, err := uc.Get(context.Background(), "TSLA", 30); err != nil {
		t.Fatalf("Get (retry): %v", err)
	}
	if yahoo.calls != 2 {
		t.Fatalf("calls = %d, want refetch", yahoo.calls)
	}
}

func TestGetUsesCache(t *testing.T) {
	uc, krx, _, _ := newTestSeriesUC(t)
	krx.bars = genBars(140)

	first, err := uc.Get(context.Background(), "005930", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if krx.calls != 1 {
		t.Fatalf("calls = %d", krx.calls)
	}

	second, err := uc.Get(context.Background(), "005930", 30)
	if err != nil {
		t.Fatalf("Get (cached): %v", err)
	}
	if krx.calls != 1 {
		t.Fatalf("calls = %d, want cache hit", krx.calls)
	}
	if second.Series.Len() != first.Series.Len() {
		t.Fatalf("cached len = %d, want %d", second.Series.Len(), first.Series.Len())
	}

	// The suffixed form carries the same code and shares the entry.
	if _, err := uc.Get(context.Background(), "005930.KS", 30); err != nil {
		t.Fatalf("Get (suffixed): %v", err)
	}
	if krx.calls != 1 {
		t.Fatalf("calls = %d, suffixed form should hit the same entry", krx.calls)
	}
}

func TestGetDropsPlaceholderRows(t *testing.T) {
	uc, krx, _, _ := newTestSeriesUC(t)
	bars := genBars(10)
	bars[4].Open = 0
	krx.bars = bars

	res, err := uc.Get(context.Background(), "005930", 30)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Series.Len() != 9 {
		t.Fatalf("series len = %d, want 9", res.Series.Len())
	}
	for _, b := range res.Series.Bars {
		if b.Open <= 0 {
			t.Fatalf("placeholder row survived: %+v", b)
		}
	}
}

func TestGetClampsDays(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero defaults", 0, 90},
		{"below minimum", 10, 30},
		{"above maximum", 10000, 730},
		{"in range", 120, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, yahoo, _ := newTestSeriesUC(t)
			yahoo.err = repository.ErrNoData

			res, err := uc.Get(context.Background(), "TSLA", tt.in)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if res.Days != tt.want {
				t.Fatalf("days = %d, want %d", res.Days, tt.want)
			}
		})
	}
}
