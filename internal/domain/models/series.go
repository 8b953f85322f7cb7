package models

import (
	"encoding/json"
	"math"
	"time"
)

// OhlcvBar is one trading day's candle. For yield, rate, and spread style
// instruments the four prices coincide and volume is zero.
type OhlcvBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// OhlcvSeries is an ordered run of daily bars with unique ascending dates.
// Adapters create it per request; downstream stages derive copies and never
// mutate it in place.
type OhlcvSeries []OhlcvBar

// Closes returns the close column.
func (s OhlcvSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// TotalVolume sums the volume column.
func (s OhlcvSeries) TotalVolume() float64 {
	var total float64
	for _, b := range s {
		total += b.Volume
	}
	return total
}

// Column is one derived indicator column. It is a plain float64 slice for
// computation, but serializes NaN cells as JSON null so augmented series
// survive cache stores that marshal values.
type Column []float64

// MarshalJSON encodes undefined cells as null.
func (c Column) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(c))
	for i := range c {
		if !math.IsNaN(c[i]) {
			v := c[i]
			out[i] = &v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null cells back to NaN.
func (c *Column) UnmarshalJSON(b []byte) error {
	var raw []*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Column, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	*c = out
	return nil
}

// AugmentedSeries is the input series plus the derived indicator columns.
// Every column has the same length as Bars; cells inside a rolling window's
// warm-up, or whose computation degenerates, hold math.NaN() rather than
// zero, since zero is a legitimate computed value.
type AugmentedSeries struct {
	Bars     OhlcvSeries
	MA5      Column
	MA10     Column
	MA20     Column
	BBMid    Column
	BBUpper  Column
	BBLower  Column
	RSI14    Column
	MFI10    Column
	Breakout Column
}

// Len returns the number of rows.
func (a AugmentedSeries) Len() int { return len(a.Bars) }

// Tail returns the trailing n rows with every column sliced in step. The
// full series is returned when it is shorter than n.
func (a AugmentedSeries) Tail(n int) AugmentedSeries {
	if n >= a.Len() {
		return a
	}
	from := a.Len() - n
	return AugmentedSeries{
		Bars:     a.Bars[from:],
		MA5:      a.MA5[from:],
		MA10:     a.MA10[from:],
		MA20:     a.MA20[from:],
		BBMid:    a.BBMid[from:],
		BBUpper:  a.BBUpper[from:],
		BBLower:  a.BBLower[from:],
		RSI14:    a.RSI14[from:],
		MFI10:    a.MFI10[from:],
		Breakout: a.Breakout[from:],
	}
}

// Last returns the index of the final row and true, or false when empty.
func (a AugmentedSeries) Last() (int, bool) {
	if a.Len() == 0 {
		return 0, false
	}
	return a.Len() - 1, true
}

// SeriesRow is the transport form of one augmented row. Indicator cells are
// pointers because JSON has no NaN; undefined cells serialize as null.
type SeriesRow struct {
	Date     string   `json:"date"`
	Open     float64  `json:"open"`
	High     float64  `json:"high"`
	Low      float64  `json:"low"`
	Close    float64  `json:"close"`
	Volume   float64  `json:"volume"`
	MA5      *float64 `json:"ma5"`
	MA10     *float64 `json:"ma10"`
	MA20     *float64 `json:"ma20"`
	BBMid    *float64 `json:"bb_mid"`
	BBUpper  *float64 `json:"bb_upper"`
	BBLower  *float64 `json:"bb_lower"`
	RSI14    *float64 `json:"rsi14"`
	MFI10    *float64 `json:"mfi10"`
	Breakout *float64 `json:"vol_breakout_target"`
}

// Rows converts the augmented series to its transport form.
func (a AugmentedSeries) Rows() []SeriesRow {
	rows := make([]SeriesRow, a.Len())
	for i, b := range a.Bars {
		rows[i] = SeriesRow{
			Date:     b.Date.Format("2006-01-02"),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			Volume:   b.Volume,
			MA5:      cell(a.MA5[i]),
			MA10:     cell(a.MA10[i]),
			MA20:     cell(a.MA20[i]),
			BBMid:    cell(a.BBMid[i]),
			BBUpper:  cell(a.BBUpper[i]),
			BBLower:  cell(a.BBLower[i]),
			RSI14:    cell(a.RSI14[i]),
			MFI10:    cell(a.MFI10[i]),
			Breakout: cell(a.Breakout[i]),
		}
	}
	return rows
}

func cell(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
