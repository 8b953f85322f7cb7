// Package strategy turns the last augmented row of a series into the signal
// card data the dashboard renders: the volatility-breakout setup, the
// money-flow zone, the trend check, and tick-rounded entry levels. All
// readings are pure; undefined inputs drop the affected card instead of
// failing.
package strategy

import (
	"math"

	"MarketLens/internal/domain/models"
)

const (
	mfiOverbought = 75.0
	mfiOversold   = 25.0
	mfiBuyerLine  = 50.0
	mfiTrendFloor = 40.0
	aggressivePad = 1.03
	defensiveHair = 0.95
)

// Read derives the strategy snapshot for the series' final bar. It returns
// nil when the series is empty.
func Read(key models.InstrumentKey, a models.AugmentedSeries) *models.StrategySnapshot {
	last, ok := a.Last()
	if !ok {
		return nil
	}

	close := a.Bars[last].Close
	snap := &models.StrategySnapshot{
		Breakout: breakoutCard(key, a.Breakout[last], close),
		Flow:     flowCard(a.MFI10[last]),
		Trend:    trendCard(close, a.MA20[last], a.MFI10[last]),
	}
	snap.Entries = entryLevels(key, a.Breakout[last], close, a.MA20[last])
	return snap
}

func breakoutCard(key models.InstrumentKey, rawTarget, close float64) *models.BreakoutCard {
	if math.IsNaN(rawTarget) {
		return nil
	}
	target := models.RoundToTick(rawTarget, key.Kind)
	return &models.BreakoutCard{
		Target:    target,
		Formatted: models.FormatPrice(target, key.Kind),
		Fired:     close >= target,
	}
}

func flowCard(mfi float64) models.FlowCard {
	if math.IsNaN(mfi) {
		return models.FlowCard{Zone: "no_data", Note: "Money flow unavailable for this instrument."}
	}
	card := models.FlowCard{MFI: &mfi}
	switch {
	case mfi >= mfiOverbought:
		card.Zone = "overbought"
		card.Note = "Money flow is overheated; consider trimming into strength."
	case mfi <= mfiOversold:
		card.Zone = "oversold"
		card.Note = "Money flow is washed out; contrarian interest builds here."
	case mfi >= mfiBuyerLine:
		card.Zone = "buyers"
		card.Note = "Buyers control the tape."
	default:
		card.Zone = "sellers"
		card.Note = "Sellers control the tape."
	}
	return card
}

func trendCard(close, ma20, mfi float64) models.TrendCard {
	up := !math.IsNaN(ma20) && !math.IsNaN(mfi) && close > ma20 && mfi > mfiTrendFloor
	note := "Price is below the 20-day average or money flow is weak."
	if up {
		note = "Price holds above the 20-day average with supportive money flow."
	}
	return models.TrendCard{Uptrend: up, Note: note}
}

func entryLevels(key models.InstrumentKey, target, close, ma20 float64) []models.EntryLevel {
	levels := make([]models.EntryLevel, 0, 3)

	if !math.IsNaN(target) {
		p := models.RoundToTick(target, key.Kind)
		levels = append(levels, models.EntryLevel{
			Style:     "normal",
			Price:     p,
			Formatted: models.FormatPrice(p, key.Kind),
			Note:      "Buy the breakout above the volatility target.",
		})
	}
	if !math.IsNaN(close) {
		p := models.RoundToTick(close*aggressivePad, key.Kind)
		levels = append(levels, models.EntryLevel{
			Style:     "aggressive",
			Price:     p,
			Formatted: models.FormatPrice(p, key.Kind),
			Note:      "Stop entry 3% above the last close.",
		})
	}
	if !math.IsNaN(ma20) {
		p := models.RoundToTick(ma20*defensiveHair, key.Kind)
		levels = append(levels, models.EntryLevel{
			Style:     "defensive",
			Price:     p,
			Formatted: models.FormatPrice(p, key.Kind),
			Note:      "Limit order near 20-day average support.",
		})
	}
	return levels
}
