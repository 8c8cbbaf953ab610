package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/ranking"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
)

// stubData is a deterministic in-memory market data source.
type stubData struct {
	mu           sync.Mutex
	universe     []models.Quote
	historyCalls []string
}

func (s *stubData) GetQuotes(_ context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return append([]models.Quote(nil), s.universe...), nil
	}
	var out []models.Quote
	for _, q := range s.universe {
		for _, sym := range symbols {
			if q.Symbol == sym {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (s *stubData) GetHistory(_ context.Context, symbol string, _ drepo.Period) ([]models.Candle, error) {
	s.mu.Lock()
	s.historyCalls = append(s.historyCalls, symbol)
	s.mu.Unlock()

	candles := make([]models.Candle, 30)
	for i := range candles {
		c := 100 + float64(i)
		candles[i] = models.Candle{Open: c, High: c + 0.5, Low: c - 0.5, Close: c}
	}
	return candles, nil
}

func (s *stubData) GetFundamentals(_ context.Context, _ string) (models.Fundamentals, error) {
	return models.Fundamentals{PE: 12, ROE: 20, Beta: 0.9}, nil
}

func (s *stubData) SearchTicker(_ context.Context, query string) ([]models.Quote, error) {
	return s.GetQuotes(context.Background(), []string{query})
}

func (s *stubData) GetMarketSummary(_ context.Context) (models.MarketSummary, error) {
	return models.MarketSummary{Headline: "stub", UpdatedAt: time.Now()}, nil
}

func (s *stubData) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.historyCalls...)
}

func (s *stubData) resetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyCalls = nil
}

func testUniverse(symbols ...string) []models.Quote {
	quotes := make([]models.Quote, 0, len(symbols))
	for i, sym := range symbols {
		quotes = append(quotes, models.Quote{
			Symbol: sym,
			Sector: "Technology",
			Price:  100 + float64(i),
		})
	}
	return quotes
}

func newScreenerForTest(t *testing.T, data drepo.MarketData, cfg Config) *Screener {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewScreener(data, cfg, log, metrics.NewNoop())
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	data := &stubData{universe: testUniverse("AAPL", "MSFT", "NVDA")}
	s := newScreenerForTest(t, data, Config{})

	if latest, at := s.Latest(); len(latest) != 0 || !at.IsZero() {
		t.Fatalf("expected empty state before refresh, got %d recs", len(latest))
	}

	recs, err := s.Refresh(context.Background(), Params{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Fatalf("snapshot not sorted by score: %+v", recs)
		}
	}

	latest, at := s.Latest()
	if len(latest) != len(recs) || at.IsZero() {
		t.Fatalf("snapshot not published: %d recs at %v", len(latest), at)
	}
}

func TestRefreshRotatesOverflow(t *testing.T) {
	data := &stubData{universe: testUniverse("AAA", "BBB", "CCC", "DDD")}
	s := newScreenerForTest(t, data, Config{BatchSize: 2})
	ctx := context.Background()

	if _, err := s.Refresh(ctx, Params{}); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	first := data.calls()
	sort.Strings(first)
	if len(first) != 2 {
		t.Fatalf("expected 2 screened in first cycle, got %v", first)
	}

	data.resetCalls()
	if _, err := s.Refresh(ctx, Params{}); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	second := data.calls()
	sort.Strings(second)
	if len(second) != 2 {
		t.Fatalf("expected 2 screened in second cycle, got %v", second)
	}

	// Between the two cycles every symbol must be covered exactly once.
	seen := append(first, second...)
	sort.Strings(seen)
	want := []string{"AAA", "BBB", "CCC", "DDD"}
	for i, sym := range want {
		if seen[i] != sym {
			t.Fatalf("rotation missed a symbol: %v", seen)
		}
	}
}

func TestRefreshNoData(t *testing.T) {
	data := &stubData{}
	s := newScreenerForTest(t, data, Config{})

	if _, err := s.Refresh(context.Background(), Params{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestRefreshSymbolOverride(t *testing.T) {
	data := &stubData{universe: testUniverse("AAPL", "MSFT", "NVDA")}
	s := newScreenerForTest(t, data, Config{})

	recs, err := s.Refresh(context.Background(), Params{Symbols: []string{"MSFT"}})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(recs) != 1 || recs[0].Symbol != "MSFT" {
		t.Fatalf("override ignored: %+v", recs)
	}
}

func TestRefreshAppliesFilters(t *testing.T) {
	data := &stubData{universe: testUniverse("AAPL", "MSFT")}
	s := newScreenerForTest(t, data, Config{})

	recs, err := s.Refresh(context.Background(), Params{
		Options: ranking.Options{MinScore: 101},
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("impossible MinScore must filter everything, got %+v", recs)
	}
}
