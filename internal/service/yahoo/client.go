// Package yahoo fetches daily candles from the Yahoo Finance v8 chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
)

const providerName = "yahoo"

// Yahoo rejects requests with Go's default agent string.
const userAgent = "Mozilla/5.0 (compatible; MarketLens/1.0)"

// Client implements a BarSource backed by the v8 chart endpoint.
type Client struct {
	baseURL string
	client  *xhttp.Client
	metrics repository.Metrics
}

// New creates a Yahoo bar source.
func New(baseURL string, timeout time.Duration, m repository.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: m,
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchDaily requests [from, to] at daily interval. Bars with a null price
// cell are skipped; a response that covers several tickers reduces to the
// first result.
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
	var resp chartResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		Headers: map[string]string{
			"User-Agent": userAgent,
		},
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s (%s)", symbol, e.Description, e.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, repository.ErrNoData
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, repository.ErrNoData
	}
	quote := result.Indicators.Quote[0]

	out := make(models.OhlcvSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := cell(quote.Open, i)
		h := cell(quote.High, i)
		l := cell(quote.Low, i)
		cl := cell(quote.Close, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}
		date := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		if date.Before(from) || date.After(to) {
			continue
		}
		var volume float64
		if v := cell(quote.Volume, i); v != nil {
			volume = *v
		}
		out = append(out, models.OhlcvBar{
			Date:   date,
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *cl,
			Volume: volume,
		})
	}
	if len(out) == 0 {
		return nil, repository.ErrNoData
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func cell(col []*float64, i int) *float64 {
	if i >= len(col) {
		return nil
	}
	return col[i]
}
