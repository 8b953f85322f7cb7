package models

// Requests and responses for the market HTTP endpoints. Defined in domain
// for consistency and reuse.

type SeriesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Days   int    `query:"days" json:"days" default:"90" validate:"gte=30,lte=730"`
}

type SeriesResponse struct {
	Symbol   string            `json:"symbol"`
	Kind     InstrumentKind    `json:"kind"`
	Code     string            `json:"code,omitempty"`
	Days     int               `json:"days"`
	Rows     []SeriesRow       `json:"rows"`
	Strategy *StrategySnapshot `json:"strategy,omitempty"`
}

type OverviewResponse struct {
	Quotes []OverviewQuote `json:"quotes"`
}
