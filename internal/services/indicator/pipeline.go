// Package indicator derives the technical indicator columns from a raw daily
// series. Every computation is deterministic and side-effect free: numeric
// edge cases degrade to NaN cells instead of errors, and NaN propagates
// through dependent values without being silently replaced by zero.
package indicator

import (
	"math"

	"MarketLens/internal/domain/models"
)

const (
	maShortWindow = 5
	maMidWindow   = 10
	maLongWindow  = 20

	bollingerWindow = 20
	bollingerWidth  = 2.0

	rsiWindow = 14

	// Shortened from the textbook 14 bars for sensitivity on daily data.
	mfiWindow = 10

	// Larry Williams style breakout coefficient on the prior day's range.
	breakoutK = 0.5
)

// Augment derives the indicator columns for bars. The input is never
// mutated; an empty series yields an empty augmented series.
func Augment(bars models.OhlcvSeries) models.AugmentedSeries {
	closes := bars.Closes()

	ma20 := rollingMean(closes, maLongWindow)
	std20 := rollingStd(closes, bollingerWindow)

	out := models.AugmentedSeries{
		Bars:     bars,
		MA5:      rollingMean(closes, maShortWindow),
		MA10:     rollingMean(closes, maMidWindow),
		MA20:     ma20,
		BBMid:    band(ma20, std20, 0),
		BBUpper:  band(ma20, std20, bollingerWidth),
		BBLower:  band(ma20, std20, -bollingerWidth),
		RSI14:    relativeStrength(closes, rsiWindow),
		MFI10:    moneyFlow(bars, mfiWindow),
		Breakout: breakoutTargets(bars),
	}
	return out
}

// nanSlice allocates a column of n undefined cells.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// rollingMean computes the trailing simple mean over window bars. Cells
// before the window fills stay NaN.
func rollingMean(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	for i := window - 1; i < len(xs); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += xs[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}

// rollingStd computes the trailing sample standard deviation (n-1 divisor)
// over window bars.
func rollingStd(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	for i := window - 1; i < len(xs); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += xs[j]
		}
		mean := sum / float64(window)

		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := xs[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(window-1))
	}
	return out
}

// band shifts the midline by width standard deviations, keeping NaN cells
// aligned between the two inputs.
func band(mid, std []float64, width float64) []float64 {
	out := nanSlice(len(mid))
	for i := range mid {
		out[i] = mid[i] + width*std[i]
	}
	return out
}

// relativeStrength computes RSI with a simple (not exponential) rolling mean
// of gains and losses. The first close has no diff, so the earliest defined
// cell sits at index window. A zero mean loss leaves the cell undefined; a
// flat window has zero gain and zero loss and is undefined too.
func relativeStrength(closes []float64, window int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n == 0 {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	for i := window; i < n; i++ {
		var gain, loss float64
		for j := i - window + 1; j <= i; j++ {
			gain += gains[j]
			loss += losses[j]
		}
		meanGain := gain / float64(window)
		meanLoss := loss / float64(window)
		if meanLoss == 0 {
			continue
		}
		rs := meanGain / meanLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// moneyFlow computes the volume-weighted MFI over window bars. A bar's flow
// is positive when its typical price rose against the prior bar, negative
// when it fell, and zero when unchanged or on the first bar. A series with
// no volume at all (yields, fx rates) reads as a constant neutral 50; a
// window with zero negative flow leaves that cell undefined.
func moneyFlow(bars models.OhlcvSeries, window int) []float64 {
	n := len(bars)
	out := nanSlice(n)
	if n == 0 {
		return out
	}

	if bars.TotalVolume() == 0 {
		for i := range out {
			out[i] = 50
		}
		return out
	}

	positive := make([]float64, n)
	negative := make([]float64, n)
	prev := typicalPrice(bars[0])
	for i := 1; i < n; i++ {
		tp := typicalPrice(bars[i])
		flow := tp * bars[i].Volume
		switch {
		case tp > prev:
			positive[i] = flow
		case tp < prev:
			negative[i] = flow
		}
		prev = tp
	}

	for i := window - 1; i < n; i++ {
		var pos, neg float64
		for j := i - window + 1; j <= i; j++ {
			pos += positive[j]
			neg += negative[j]
		}
		if neg == 0 {
			continue
		}
		out[i] = 100 - 100/(1+pos/neg)
	}
	return out
}

func typicalPrice(b models.OhlcvBar) float64 {
	return (b.High + b.Low + b.Close) / 3
}

// breakoutTargets computes open + k * prior day's range. The first bar has
// no prior range and stays undefined.
func breakoutTargets(bars models.OhlcvSeries) []float64 {
	out := nanSlice(len(bars))
	for i := 1; i < len(bars); i++ {
		out[i] = bars[i].Open + breakoutK*(bars[i-1].High-bars[i-1].Low)
	}
	return out
}
