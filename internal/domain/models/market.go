package models

import "time"

// Quote is the latest traded state of one instrument. Quotes are refreshed
// wholesale on every polling cycle; a new fetch replaces the previous one.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"changePct"`
	Volume    int64   `json:"volume"`
	Currency  string  `json:"currency,omitempty"`
	Market    string  `json:"market,omitempty"`
}

// Candle is one historical OHLCV bar. Timestamp is ISO-8601 in UTC.
// A slice of candles for one symbol/period pair is ordered ascending by time.
type Candle struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Fundamentals is one snapshot of valuation and quality ratios for a symbol.
// Zero means the upstream source had no value.
type Fundamentals struct {
	PE            float64 `json:"pe"`
	PS            float64 `json:"ps"`
	ROE           float64 `json:"roe"`
	DebtToEquity  float64 `json:"debtToEquity"`
	Growth5Y      float64 `json:"growth5y"`
	ProfitMargin  float64 `json:"profitMargin"`
	Beta          float64 `json:"beta"`
	DividendYield float64 `json:"dividendYield"`
}

// IsZero reports whether every ratio is missing. Such snapshots are kept out
// of peer comparisons so absent data cannot masquerade as a cheap valuation.
func (f Fundamentals) IsZero() bool {
	return f == Fundamentals{}
}

// Ticker is one entry of the reference universe.
type Ticker struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Market   string `json:"market,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Mover is one of the day's largest percent moves.
type Mover struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"changePct"`
}

// MarketSummary is a lightweight overview derived from the current quotes.
type MarketSummary struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Headline  string    `json:"headline"`
	Movers    []Mover   `json:"movers"`
}
