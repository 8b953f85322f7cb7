// Package krx fetches daily candles for Korean exchange listings from the
// Naver fchart endpoint. The endpoint serves EUC-KR encoded XML, one
// pipe-delimited item per trading day.
package krx

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/korean"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/util"
)

const providerName = "krx"

// Client implements a BarSource backed by the Naver fchart API.
type Client struct {
	baseURL string
	client  *xhttp.Client
	metrics repository.Metrics
}

// New creates a KRX bar source.
func New(baseURL string, timeout time.Duration, m repository.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: m,
	}
}

type chartDocument struct {
	XMLName xml.Name    `xml:"protocol"`
	Items   []chartItem `xml:"chartdata>item"`
}

type chartItem struct {
	Data string `xml:"data,attr"`
}

// FetchDaily requests the last DaySpan(from, to) daily items and keeps the
// ones dated inside [from, to].
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
	var raw []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/sise.nhn",
		QueryParams: map[string][]string{
			"symbol":      {symbol},
			"timeframe":   {"day"},
			"count":       {strconv.Itoa(util.DaySpan(from, to))},
			"requestType": {"0"},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("krx fetch %s: %w", symbol, err)
	}

	bars, err := parseChart(raw)
	if err != nil {
		return nil, fmt.Errorf("krx parse %s: %w", symbol, err)
	}

	out := make(models.OhlcvSeries, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, repository.ErrNoData
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// parseChart decodes the fchart XML. Items carry a single data attribute of
// the form "YYYYMMDD|open|high|low|close|volume"; malformed items are
// skipped rather than failing the whole window.
func parseChart(raw []byte) ([]models.OhlcvBar, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "euc-kr":
			return korean.EUCKR.NewDecoder().Reader(input), nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
	}

	var doc chartDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode chart xml: %w", err)
	}

	bars := make([]models.OhlcvBar, 0, len(doc.Items))
	for _, item := range doc.Items {
		fields := strings.Split(item.Data, "|")
		if len(fields) != 6 {
			continue
		}
		date, ok := util.ParseCompactDate(fields[0])
		if !ok {
			continue
		}
		var vals [5]float64
		valid := true
		for i := range vals {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				valid = false
				break
			}
			vals[i] = v
		}
		if !valid {
			continue
		}
		bars = append(bars, models.OhlcvBar{
			Date:   date,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return bars, nil
}
