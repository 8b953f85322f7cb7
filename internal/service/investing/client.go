// Package investing fetches yield and FX rate series from the aggregator
// sidecar. The sidecar serves one value per day; bars map to close-only
// candles with zero volume.
package investing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/util"
)

const providerName = "investing"

// Client implements a BarSource backed by the aggregator daily endpoint.
// Symbols pass through verbatim, so caller conventions such as the
// "INVESTING:" prefix for yield series reach the sidecar untouched.
type Client struct {
	baseURL string
	client  *xhttp.Client
	metrics repository.Metrics
}

// New creates an aggregator bar source.
func New(baseURL string, timeout time.Duration, m repository.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: m,
	}
}

type dailyResponse struct {
	Symbol string     `json:"symbol"`
	Rows   []dailyRow `json:"rows"`
}

type dailyRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// FetchDaily requests [from, to] and maps each value to a flat candle.
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) (models.OhlcvSeries, error) {
	if c.metrics != nil {
		c.metrics.RecordFetch(providerName, symbol)
	}
	start := time.Now()

	series, err := c.fetch(ctx, symbol, from, to)

	if c.metrics != nil {
		c.metrics.RecordFetchLatency(providerName, time.Since(start).Seconds())
		if err != nil && !errors.Is(err, repository.ErrNoData) {
			c.metrics.RecordFetchError(providerName)
		}
	}
	return series, err
}

func (c *Client) fetch(ctx context.Context, symbol string, from, to time.Time) (models.OhlcvSeries, error) {
	var resp dailyResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/daily",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"from":   {util.FormatDate(from)},
			"to":     {util.FormatDate(to)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("investing fetch %s: %w", symbol, err)
	}

	out := make(models.OhlcvSeries, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		date, ok := util.ParseDate(row.Date)
		if !ok {
			continue
		}
		if date.Before(from) || date.After(to) {
			continue
		}
		out = append(out, models.OhlcvBar{
			Date:  date,
			Open:  row.Value,
			High:  row.Value,
			Low:   row.Value,
			Close: row.Value,
		})
	}
	if len(out) == 0 {
		return nil, repository.ErrNoData
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
