package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Domestic equities trade on a 50 KRW tick at the price band this tool
// targets; other markets pass through unrounded.
const domesticTick = 50

// RoundToTick snaps price to the market's tick grid. It must only be applied
// to presentation values: rounding the raw close series before indicator
// computation would corrupt the MA/RSI/MFI math.
func RoundToTick(price float64, kind InstrumentKind) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return price
	}
	if kind != KindDomesticEquity {
		return price
	}
	return math.Round(price/domesticTick) * domesticTick
}

// FormatPrice renders price for display. Domestic equities use whole KRW
// with thousands grouping; everything else uses two-decimal dollars.
// Undefined input renders as "-" rather than panicking.
func FormatPrice(price float64, kind InstrumentKind) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "-"
	}
	if kind == KindDomesticEquity {
		return groupDigits(strconv.FormatFloat(math.Round(price), 'f', 0, 64)) + "원"
	}
	return "$" + groupDigits(strconv.FormatFloat(price, 'f', 2, 64))
}

// groupDigits inserts comma separators into the integer part of a formatted
// number, preserving sign and decimals.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatChangePct renders a day-over-day percentage with an explicit sign.
func FormatChangePct(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}
