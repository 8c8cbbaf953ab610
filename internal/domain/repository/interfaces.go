package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// MarketData is the capability contract every market-data variant implements.
// Implementations must not panic and must not leak per-symbol upstream
// failures to callers: a symbol that cannot be resolved is omitted (quotes),
// yields an empty series (history) or a zero-filled snapshot (fundamentals).
type MarketData interface {
	// GetQuotes returns one quote per resolved symbol. With an empty symbol
	// list the provider resolves its default universe, capped at the
	// configured symbol limit.
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)

	// GetHistory returns ascending candles covering the period. A symbol with
	// no data yields an empty slice and no error.
	GetHistory(ctx context.Context, symbol string, period Period) ([]models.Candle, error)

	// GetFundamentals returns the latest ratio snapshot for symbol.
	GetFundamentals(ctx context.Context, symbol string) (models.Fundamentals, error)

	// SearchTicker free-text matches query against symbol and name. Results
	// are bounded to a small fixed count.
	SearchTicker(ctx context.Context, query string) ([]models.Quote, error)

	// GetMarketSummary derives movers from the current quotes. It never
	// fails; with no data it synthesizes a placeholder headline.
	GetMarketSummary(ctx context.Context) (models.MarketSummary, error)
}

// Metrics records operational counters for the screening pipeline.
type Metrics interface {
	RecordFetch(provider, kind string)
	RecordCache(result string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordUniverseSize(n int)
	RecordScore(symbol string, score int)
}
