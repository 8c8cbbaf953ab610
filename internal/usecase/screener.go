package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/ranking"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/queue"
)

// ErrNoData means not a single instrument could be resolved this cycle.
var ErrNoData = errors.New("screener: no market data available")

// defaultSymbols seeds a refresh when the provider cannot list a universe.
var defaultSymbols = []string{"AAPL", "MSFT", "NVDA", "JPM", "JNJ", "XOM", "KO", "WMT"}

// Config tunes the refresh pipeline.
type Config struct {
	// Symbols pins the screened universe; empty means ask the provider.
	Symbols []string
	// FetchConcurrency caps parallel per-symbol fetches.
	FetchConcurrency int
	// BatchSize caps symbols per cycle; the overflow rotates into later
	// cycles. Non-positive means everything every cycle.
	BatchSize int
	// Period is the history lookback used for scoring.
	Period drepo.Period
}

// Params narrows a single refresh. Zero values inherit the configured
// defaults.
type Params struct {
	Symbols []string
	Options ranking.Options
}

// Screener orchestrates one polling cycle: resolve the universe, fan out
// per-symbol fetches, score, rank, and publish the result snapshot.
type Screener struct {
	data     drepo.MarketData
	log      *logger.Logger
	metrics  drepo.Metrics
	rotation *queue.Rotation[string]
	cfg      Config

	// generation invalidates in-flight cycles when a newer one starts.
	generation atomic.Uint64

	mu        sync.RWMutex
	latest    []models.Recommendation
	refreshed time.Time
}

// NewScreener creates the screening orchestrator.
func NewScreener(data drepo.MarketData, cfg Config, log *logger.Logger, metrics drepo.Metrics) *Screener {
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 5
	}
	if cfg.Period == "" {
		cfg.Period = drepo.DefaultPeriod()
	}
	return &Screener{
		data:     data,
		log:      log,
		metrics:  metrics,
		rotation: queue.NewRotation[string](0),
		cfg:      cfg,
	}
}

// Refresh runs one full screening cycle and publishes the snapshot. A cycle
// superseded by a newer Refresh abandons its result.
func (s *Screener) Refresh(ctx context.Context, params Params) ([]models.Recommendation, error) {
	gen := s.generation.Add(1)
	start := time.Now()

	quotes, err := s.resolveUniverse(ctx, params.Symbols)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNoData
	}

	selected, quoteBySymbol := s.selectBatch(quotes)
	inputs := s.fetchInputs(ctx, selected, quoteBySymbol)
	if len(inputs) == 0 {
		return nil, ErrNoData
	}

	recs := ranking.BuildRecommendations(inputs, params.Options)

	if s.generation.Load() != gen {
		s.log.Debug("refresh superseded, dropping result", logger.Int("count", len(recs)))
		return recs, nil
	}

	s.mu.Lock()
	s.latest = recs
	s.refreshed = time.Now()
	s.mu.Unlock()

	s.metrics.RecordUniverseSize(len(inputs))
	for _, r := range recs {
		s.metrics.RecordScore(r.Symbol, r.Score)
	}
	s.metrics.RecordLatency("refresh", time.Since(start).Seconds())

	s.log.Info("refresh complete",
		logger.Int("screened", len(inputs)),
		logger.Int("recommended", len(recs)),
		logger.Int("deferred", s.rotation.Len()),
		logger.Duration("took", time.Since(start)))
	return recs, nil
}

// Latest returns the last published snapshot and its timestamp.
func (s *Screener) Latest() ([]models.Recommendation, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.refreshed
}

// Search proxies free-text ticker search to the data layer.
func (s *Screener) Search(ctx context.Context, query string) ([]models.Quote, error) {
	return s.data.SearchTicker(ctx, query)
}

// Summary proxies the market overview to the data layer.
func (s *Screener) Summary(ctx context.Context) (models.MarketSummary, error) {
	return s.data.GetMarketSummary(ctx)
}

func (s *Screener) resolveUniverse(ctx context.Context, override []string) ([]models.Quote, error) {
	symbols := override
	if len(symbols) == 0 {
		symbols = s.cfg.Symbols
	}

	quotes, err := s.data.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 && len(symbols) == 0 {
		s.log.Warn("provider returned no universe, using builtin symbols")
		return s.data.GetQuotes(ctx, defaultSymbols)
	}
	return quotes, nil
}

// selectBatch picks this cycle's symbols: rotated leftovers first, then the
// current universe, with the overflow parked for the next cycle.
func (s *Screener) selectBatch(quotes []models.Quote) ([]string, map[string]models.Quote) {
	bySymbol := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}

	batch := s.cfg.BatchSize
	if batch <= 0 || batch > len(bySymbol) {
		batch = len(bySymbol)
	}

	selected := make([]string, 0, batch)
	taken := make(map[string]struct{}, batch)
	for _, sym := range s.rotation.Pop(batch) {
		if _, ok := bySymbol[sym]; !ok {
			continue // symbol left the universe while parked
		}
		selected = append(selected, sym)
		taken[sym] = struct{}{}
	}

	var overflow []string
	for _, q := range quotes {
		if _, ok := taken[q.Symbol]; ok {
			continue
		}
		if len(selected) < batch {
			selected = append(selected, q.Symbol)
			taken[q.Symbol] = struct{}{}
		} else {
			overflow = append(overflow, q.Symbol)
		}
	}
	s.rotation.Push(overflow...)

	return selected, bySymbol
}

// fetchInputs fans out history and fundamentals fetches across a bounded
// worker pool.
func (s *Screener) fetchInputs(ctx context.Context, symbols []string, quotes map[string]models.Quote) []models.RankingInput {
	var (
		mu     sync.Mutex
		inputs = make([]models.RankingInput, 0, len(symbols))
		wg     sync.WaitGroup
		sem    = make(chan struct{}, s.cfg.FetchConcurrency)
	)

	for _, sym := range symbols {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(sym string) {
			defer wg.Done()
			defer func() { <-sem }()

			history, err := s.data.GetHistory(ctx, sym, s.cfg.Period)
			if err != nil {
				s.metrics.RecordError("history")
				s.log.Warn("history fetch failed", logger.String("symbol", sym), logger.Error(err))
				history = nil
			}
			fundamentals, err := s.data.GetFundamentals(ctx, sym)
			if err != nil {
				s.metrics.RecordError("fundamentals")
				s.log.Warn("fundamentals fetch failed", logger.String("symbol", sym), logger.Error(err))
				fundamentals = models.Fundamentals{}
			}

			mu.Lock()
			inputs = append(inputs, models.RankingInput{
				Quote:        quotes[sym],
				History:      history,
				Fundamentals: fundamentals,
			})
			mu.Unlock()
		}(sym)
	}
	wg.Wait()

	return inputs
}
