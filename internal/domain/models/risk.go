package models

import "time"

// RiskState is the discrete macro posture derived from the credit spread.
// RiskOn means the risk alarm is on: spreads above the absolute threshold
// signal credit stress regardless of trend.
type RiskState string

const (
	RiskOn      RiskState = "risk_on"
	RiskCaution RiskState = "caution"
	RiskOff     RiskState = "risk_off"
	RiskNeutral RiskState = "neutral"
	RiskUnknown RiskState = "unknown"
)

// RiskAssessment pairs a state with its fixed message and display color.
type RiskAssessment struct {
	State   RiskState `json:"state"`
	Message string    `json:"message"`
	Color   string    `json:"color"`
}

// SpreadPoint is one observation of the macro credit-spread series.
type SpreadPoint struct {
	Date  time.Time
	Value float64
}

// SpreadRow is the transport form of a spread observation.
type SpreadRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// RiskReport is the macro view served to callers: the recent spread series,
// the current and week-ago readings, and the classified state. Numeric
// fields are pointers so an empty upstream yields nulls instead of NaN.
type RiskReport struct {
	SeriesID   string         `json:"series_id"`
	Points     []SpreadRow    `json:"points"`
	Current    *float64       `json:"current"`
	WeekAgo    *float64       `json:"week_ago"`
	Change     *float64       `json:"change"`
	Assessment RiskAssessment `json:"assessment"`
}
