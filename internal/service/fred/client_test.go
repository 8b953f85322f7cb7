package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketLens/internal/domain/repository"
)

func TestFetchObservations(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"series_id":         r.URL.Query().Get("series_id"),
			"api_key":           r.URL.Query().Get("api_key"),
			"file_type":         r.URL.Query().Get("file_type"),
			"observation_start": r.URL.Query().Get("observation_start"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"observations": [
				{"date": "2024-05-03", "value": "3.21"},
				{"date": "2024-05-02", "value": "3.15"},
				{"date": "2024-05-01", "value": "."},
				{"date": "2024-04-30", "value": "3.08"}
			]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", time.Second, nil)
	from := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	points, err := c.FetchObservations(context.Background(), "BAMLH0A0HYM2", from)
	if err != nil {
		t.Fatalf("FetchObservations: %v", err)
	}

	if gotPath != "/fred/series/observations" {
		t.Fatalf("path = %q", gotPath)
	}
	want := map[string]string{
		"series_id":         "BAMLH0A0HYM2",
		"api_key":           "test-key",
		"file_type":         "json",
		"observation_start": "2024-04-30",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	// The "." holiday row drops; the rest sort ascending.
	if len(points) != 3 {
		t.Fatalf("len = %d, want 3", len(points))
	}
	if !points[0].Date.Equal(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first date = %v", points[0].Date)
	}
	if points[0].Value != 3.08 || points[2].Value != 3.21 {
		t.Fatalf("values = %v, %v", points[0].Value, points[2].Value)
	}
}

func TestFetchObservationsAllMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [{"date": "2024-05-01", "value": "."}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", time.Second, nil)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := c.FetchObservations(context.Background(), "BAMLH0A0HYM2", from)
	if !errors.Is(err, repository.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestFetchObservationsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code":400,"error_message":"Bad Request. The value for variable api_key is not registered."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-key", time.Second, nil)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := c.FetchObservations(context.Background(), "BAMLH0A0HYM2", from)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, repository.ErrNoData) {
		t.Fatal("auth failure must not look like an empty window")
	}
}
