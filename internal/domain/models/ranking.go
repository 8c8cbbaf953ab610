package models

// Signal is the discretized recommendation derived from a composite score.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

// RankingInput joins one quote with its history and fundamentals. It is the
// atomic unit the scoring engine consumes. History may be short or empty;
// scoring then degrades to neutral defaults instead of failing.
type RankingInput struct {
	Quote        Quote
	History      []Candle
	Fundamentals Fundamentals
}

// Recommendation is one scored, explainable screening result. It is derived
// per cycle and never persisted.
type Recommendation struct {
	Symbol     string   `json:"symbol"`
	Name       string   `json:"name,omitempty"`
	Sector     string   `json:"sector,omitempty"`
	Score      int      `json:"score"`
	Signal     Signal   `json:"signal"`
	Price      float64  `json:"price"`
	ChangePct  float64  `json:"changePct"`
	Factors    []string `json:"factors"`
	ATRPercent float64  `json:"atrPercent"`
}
