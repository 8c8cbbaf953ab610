// Package marketdata decorates providers with caching, timeouts and a
// fallback chain. The decorated service degrades to empty values instead of
// failing, so one bad upstream cannot take the screener down.
package marketdata

import (
	"context"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

// Provider is a named market data source.
type Provider interface {
	repository.MarketData
	Name() string
}

// TTLConfig sets how long each data kind stays fresh.
type TTLConfig struct {
	Quote        time.Duration
	History      time.Duration
	Fundamentals time.Duration
	Search       time.Duration
	Summary      time.Duration
}

// DefaultTTLConfig mirrors upstream freshness windows: quotes are intraday,
// history and fundamentals end-of-day.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Quote:        30 * time.Second,
		History:      24 * time.Hour,
		Fundamentals: 24 * time.Hour,
		Search:       time.Hour,
		Summary:      time.Minute,
	}
}

// DefaultFetchTimeout bounds a single provider call.
const DefaultFetchTimeout = 7 * time.Second

// Resilient wraps an ordered provider chain behind a cache. Reads hit the
// cache first; on a miss providers are tried in order, and whichever answers
// populates the cache under the same key and TTL.
type Resilient struct {
	providers []Provider
	cache     cache.Service
	ttl       TTLConfig
	timeout   time.Duration
	log       *logger.Logger
	metrics   repository.Metrics
}

// NewResilient builds the decorator. Providers are tried in the given order.
func NewResilient(providers []Provider, c cache.Service, ttl TTLConfig, timeout time.Duration, log *logger.Logger, m repository.Metrics) *Resilient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Resilient{
		providers: providers,
		cache:     c,
		ttl:       ttl,
		timeout:   timeout,
		log:       log,
		metrics:   m,
	}
}

var _ repository.MarketData = (*Resilient)(nil)

func (r *Resilient) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	key := cache.GenerateKey("quotes", strings.ToUpper(strings.Join(symbols, ",")))

	var cached []models.Quote
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	quotes, ok := fetchChain(r, ctx, "quotes", func(ctx context.Context, p Provider) ([]models.Quote, error) {
		return p.GetQuotes(ctx, symbols)
	})
	if !ok {
		return []models.Quote{}, nil
	}

	r.cacheSet(ctx, key, quotes, r.ttl.Quote)
	return quotes, nil
}

func (r *Resilient) GetHistory(ctx context.Context, symbol string, period repository.Period) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("history", strings.ToUpper(symbol), string(period))

	var cached []models.Candle
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	candles, ok := fetchChain(r, ctx, "history", func(ctx context.Context, p Provider) ([]models.Candle, error) {
		return p.GetHistory(ctx, symbol, period)
	})
	if !ok {
		return []models.Candle{}, nil
	}

	r.cacheSet(ctx, key, candles, r.ttl.History)
	return candles, nil
}

func (r *Resilient) GetFundamentals(ctx context.Context, symbol string) (models.Fundamentals, error) {
	key := cache.GenerateKey("fundamentals", strings.ToUpper(symbol))

	var cached models.Fundamentals
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	snapshot, ok := fetchChain(r, ctx, "fundamentals", func(ctx context.Context, p Provider) (models.Fundamentals, error) {
		return p.GetFundamentals(ctx, symbol)
	})
	if !ok {
		return models.Fundamentals{}, nil
	}

	r.cacheSet(ctx, key, snapshot, r.ttl.Fundamentals)
	return snapshot, nil
}

func (r *Resilient) SearchTicker(ctx context.Context, query string) ([]models.Quote, error) {
	key := cache.GenerateKey("search", strings.ToLower(strings.TrimSpace(query)))

	var cached []models.Quote
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	matches, ok := fetchChain(r, ctx, "search", func(ctx context.Context, p Provider) ([]models.Quote, error) {
		return p.SearchTicker(ctx, query)
	})
	if !ok {
		return []models.Quote{}, nil
	}

	r.cacheSet(ctx, key, matches, r.ttl.Search)
	return matches, nil
}

func (r *Resilient) GetMarketSummary(ctx context.Context) (models.MarketSummary, error) {
	key := "summary"

	var cached models.MarketSummary
	if r.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	summary, ok := fetchChain(r, ctx, "summary", func(ctx context.Context, p Provider) (models.MarketSummary, error) {
		return p.GetMarketSummary(ctx)
	})
	if !ok {
		return models.MarketSummary{
			UpdatedAt: time.Now().UTC(),
			Headline:  "Market data unavailable",
		}, nil
	}

	r.cacheSet(ctx, key, summary, r.ttl.Summary)
	return summary, nil
}

// fetchChain walks the provider chain with a per-call timeout and returns the
// first answer. ok is false only when every provider failed.
func fetchChain[T any](r *Resilient, ctx context.Context, kind string, call func(context.Context, Provider) (T, error)) (T, bool) {
	var zero T
	start := time.Now()

	for _, p := range r.providers {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		result, err := call(callCtx, p)
		cancel()

		if err != nil {
			r.metrics.RecordError(kind)
			r.log.Warn("provider call failed",
				logger.String("provider", p.Name()),
				logger.String("kind", kind),
				logger.Error(err))
			continue
		}

		r.metrics.RecordFetch(p.Name(), kind)
		r.metrics.RecordLatency(kind, time.Since(start).Seconds())
		return result, true
	}

	r.log.Error("all providers failed", logger.String("kind", kind))
	return zero, false
}

func (r *Resilient) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if err := r.cache.Get(ctx, key, dest); err == nil {
		r.metrics.RecordCache("hit")
		return true
	}
	r.metrics.RecordCache("miss")
	return false
}

func (r *Resilient) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := r.cache.Set(ctx, key, value, ttl); err != nil {
		r.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
}
