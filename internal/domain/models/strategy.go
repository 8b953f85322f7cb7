package models

// BreakoutCard reports today's volatility-breakout setup. Fired means the
// last close already cleared the target.
type BreakoutCard struct {
	Target    float64 `json:"target"`
	Formatted string  `json:"formatted"`
	Fired     bool    `json:"fired"`
}

// FlowCard summarizes the money-flow oscillator reading for the last bar.
type FlowCard struct {
	MFI  *float64 `json:"mfi"`
	Zone string   `json:"zone"`
	Note string   `json:"note"`
}

// TrendCard reports the MA20 plus money-flow trend check.
type TrendCard struct {
	Uptrend bool   `json:"uptrend"`
	Note    string `json:"note"`
}

// EntryLevel is one suggested entry price, tick-rounded for its market.
type EntryLevel struct {
	Style     string  `json:"style"`
	Price     float64 `json:"price"`
	Formatted string  `json:"formatted"`
	Note      string  `json:"note"`
}

// StrategySnapshot is the signal card data derived from the last augmented
// row of a series. Cards whose inputs are undefined are omitted.
type StrategySnapshot struct {
	Breakout *BreakoutCard `json:"breakout,omitempty"`
	Flow     FlowCard      `json:"flow"`
	Trend    TrendCard     `json:"trend"`
	Entries  []EntryLevel  `json:"entries"`
}

// OverviewQuote is one cell of the market overview grid.
type OverviewQuote struct {
	Symbol    string   `json:"symbol"`
	Label     string   `json:"label,omitempty"`
	Close     *float64 `json:"close"`
	ChangePct *float64 `json:"change_pct"`
	Error     string   `json:"error,omitempty"`
}
