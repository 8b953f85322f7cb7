package krx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketLens/internal/domain/repository"
)

// chartFixture mimics the fchart payload. The name attribute carries the
// EUC-KR bytes for the listing name, matching the declared encoding.
const chartFixture = "<?xml version=\"1.0\" encoding=\"EUC-KR\"?>\n" +
	"<protocol>\n" +
	"<chartdata symbol=\"005930\" name=\"\xbb\xef\xbc\xba\xc0\xfc\xc0\xda\" count=\"4\" timeframe=\"day\" precision=\"0\" origintime=\"19900103\">\n" +
	"<item data=\"20240429|76700|77500|76100|76700|19000000\"/>\n" +
	"<item data=\"20240430|77000|78500|76600|77500|22000000\"/>\n" +
	"<item data=\"20240502|77600|78600|77300|78300|18900000\"/>\n" +
	"<item data=\"garbage\"/>\n" +
	"<item data=\"20240503|notanumber|78600|77300|78300|18900000\"/>\n" +
	"</chartdata>\n" +
	"</protocol>\n"

func TestFetchDaily(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"symbol":      r.URL.Query().Get("symbol"),
			"timeframe":   r.URL.Query().Get("timeframe"),
			"requestType": r.URL.Query().Get("requestType"),
		}
		w.Header().Set("Content-Type", "text/xml;charset=EUC-KR")
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	from := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 2, 23, 0, 0, 0, time.UTC)

	series, err := c.FetchDaily(context.Background(), "005930", from, to)
	if err != nil {
		t.Fatalf("FetchDaily: %v", err)
	}

	if gotPath != "/sise.nhn" {
		t.Fatalf("path = %q", gotPath)
	}
	want := map[string]string{"symbol": "005930", "timeframe": "day", "requestType": "0"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	// 2024-04-29 falls before the window; the malformed items are dropped.
	if len(series) != 2 {
		t.Fatalf("len = %d, want 2", len(series))
	}
	if !series[0].Date.Equal(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first bar date = %v", series[0].Date)
	}
	last := series[1]
	if last.Open != 77600 || last.High != 78600 || last.Low != 77300 || last.Close != 78300 || last.Volume != 18900000 {
		t.Fatalf("last bar = %+v", last)
	}
}

func TestFetchDailyEmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml;charset=EUC-KR")
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := c.FetchDaily(context.Background(), "005930", from, to)
	if !errors.Is(err, repository.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestFetchDailyUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	from := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	_, err := c.FetchDaily(context.Background(), "005930", from, from.AddDate(0, 0, 5))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, repository.ErrNoData) {
		t.Fatal("transport failure must not look like an empty window")
	}
}
