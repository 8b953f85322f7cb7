// Package fred fetches macro series observations from the St. Louis Fed
// FRED API.
package fred

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/util"
)

const providerName = "fred"

// Client implements a SpreadSource backed by the observations endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
	metrics repository.Metrics
}

// New creates a FRED spread source.
func New(baseURL, apiKey string, timeout time.Duration, m repository.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: m,
	}
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// FetchObservations requests observations from the start date onward. FRED
// encodes missing observations as the string "."; those rows drop out.
func (c *Client) FetchObservations(ctx context.Context, seriesID string, from time.Time) ([]models.SpreadPoint, error) {
	if c.metrics != nil {
		c.metrics.RecordFetch(providerName, seriesID)
	}
	start := time.Now()

	points, err := c.fetch(ctx, seriesID, from)

	if c.metrics != nil {
		c.metrics.RecordFetchLatency(providerName, time.Since(start).Seconds())
		if err != nil && !errors.Is(err, repository.ErrNoData) {
			c.metrics.RecordFetchError(providerName)
		}
	}
	return points, err
}

func (c *Client) fetch(ctx context.Context, seriesID string, from time.Time) ([]models.SpreadPoint, error) {
	var resp observationsResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fred/series/observations",
		QueryParams: map[string][]string{
			"series_id":         {seriesID},
			"api_key":           {c.apiKey},
			"file_type":         {"json"},
			"observation_start": {util.FormatDate(from)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fred fetch %s: %w", seriesID, err)
	}

	points := make([]models.SpreadPoint, 0, len(resp.Observations))
	for _, obs := range resp.Observations {
		if obs.Value == "." {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		date, ok := util.ParseDate(obs.Date)
		if !ok {
			continue
		}
		points = append(points, models.SpreadPoint{Date: date, Value: value})
	}
	if len(points) == 0 {
		return nil, repository.ErrNoData
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
