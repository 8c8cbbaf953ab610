package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
)

// fakeProvider serves canned data or a scripted error.
type fakeProvider struct {
	name   string
	quotes []models.Quote
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GetQuotes(_ context.Context, _ []string) ([]models.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func (f *fakeProvider) GetHistory(_ context.Context, _ string, _ repository.Period) ([]models.Candle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []models.Candle{{Timestamp: "2025-01-02T00:00:00Z", Close: 100}}, nil
}

func (f *fakeProvider) GetFundamentals(_ context.Context, _ string) (models.Fundamentals, error) {
	f.calls++
	if f.err != nil {
		return models.Fundamentals{}, f.err
	}
	return models.Fundamentals{PE: 15}, nil
}

func (f *fakeProvider) SearchTicker(_ context.Context, _ string) ([]models.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func (f *fakeProvider) GetMarketSummary(_ context.Context) (models.MarketSummary, error) {
	f.calls++
	if f.err != nil {
		return models.MarketSummary{}, f.err
	}
	return models.MarketSummary{Headline: f.name, UpdatedAt: time.Now()}, nil
}

func newResilientForTest(t *testing.T, providers ...Provider) *Resilient {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { mem.Close() })
	return NewResilient(providers, mem, DefaultTTLConfig(), time.Second, log, metrics.NewNoop())
}

func TestGetQuotesCacheFirst(t *testing.T) {
	primary := &fakeProvider{name: "primary", quotes: []models.Quote{{Symbol: "AAPL", Price: 212.5}}}
	r := newResilientForTest(t, primary)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		quotes, err := r.GetQuotes(ctx, []string{"AAPL"})
		if err != nil {
			t.Fatalf("get quotes: %v", err)
		}
		if len(quotes) != 1 || quotes[0].Symbol != "AAPL" {
			t.Fatalf("unexpected quotes: %+v", quotes)
		}
	}
	if primary.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", primary.calls)
	}

	// Symbol casing must not split the cache.
	if _, err := r.GetQuotes(ctx, []string{"aapl"}); err != nil {
		t.Fatalf("get quotes: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("lowercase read must hit the cache, got %d upstream calls", primary.calls)
	}
}

func TestFallbackChain(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("upstream down")}
	fallback := &fakeProvider{name: "fallback", quotes: []models.Quote{{Symbol: "MSFT", Price: 415}}}
	r := newResilientForTest(t, primary, fallback)
	ctx := context.Background()

	quotes, err := r.GetQuotes(ctx, []string{"MSFT"})
	if err != nil {
		t.Fatalf("get quotes: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "MSFT" {
		t.Fatalf("fallback not used: %+v", quotes)
	}

	// The fallback answer must be cached: a second read hits neither provider.
	if _, err := r.GetQuotes(ctx, []string{"MSFT"}); err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected 1 call each, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}
}

func TestAllProvidersFailDegradesToEmpty(t *testing.T) {
	down := &fakeProvider{name: "down", err: errors.New("boom")}
	alsoDown := &fakeProvider{name: "alsoDown", err: errors.New("boom too")}
	r := newResilientForTest(t, down, alsoDown)
	ctx := context.Background()

	quotes, err := r.GetQuotes(ctx, []string{"AAPL"})
	if err != nil {
		t.Fatalf("degraded read must not error: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("expected empty quotes, got %+v", quotes)
	}

	f, err := r.GetFundamentals(ctx, "AAPL")
	if err != nil || !f.IsZero() {
		t.Fatalf("expected zero snapshot, got %+v (%v)", f, err)
	}

	summary, err := r.GetMarketSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Headline == "" {
		t.Fatal("degraded summary must carry a placeholder headline")
	}
}

func TestHistoryAndFundamentalsCached(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	r := newResilientForTest(t, primary)
	ctx := context.Background()

	if _, err := r.GetHistory(ctx, "AAPL", repository.Period1Y); err != nil {
		t.Fatalf("history: %v", err)
	}
	if _, err := r.GetHistory(ctx, "AAPL", repository.Period1Y); err != nil {
		t.Fatalf("history: %v", err)
	}
	// Different period is a different cache key.
	if _, err := r.GetHistory(ctx, "AAPL", repository.Period3M); err != nil {
		t.Fatalf("history: %v", err)
	}
	if primary.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", primary.calls)
	}

	primary.calls = 0
	if _, err := r.GetFundamentals(ctx, "AAPL"); err != nil {
		t.Fatalf("fundamentals: %v", err)
	}
	if _, err := r.GetFundamentals(ctx, "aapl"); err != nil {
		t.Fatalf("fundamentals: %v", err)
	}
	// Symbol casing must not split the cache.
	if primary.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", primary.calls)
	}
}

func TestSlowProviderTimesOutToFallback(t *testing.T) {
	slow := &slowProvider{delay: 5 * time.Second}
	fallback := &fakeProvider{name: "fallback", quotes: []models.Quote{{Symbol: "KO", Price: 63.1}}}

	log, _ := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	mem := cache.NewMemoryCache()
	defer mem.Close()
	r := NewResilient([]Provider{slow, fallback}, mem, DefaultTTLConfig(), 50*time.Millisecond, log, metrics.NewNoop())

	start := time.Now()
	quotes, err := r.GetQuotes(context.Background(), []string{"KO"})
	if err != nil {
		t.Fatalf("get quotes: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "KO" {
		t.Fatalf("fallback not reached: %+v", quotes)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("slow provider not bounded by timeout, took %v", elapsed)
	}
}

// slowProvider blocks until its context is cancelled.
type slowProvider struct {
	delay time.Duration
}

func (s *slowProvider) Name() string { return "slow" }

func (s *slowProvider) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

func (s *slowProvider) GetQuotes(ctx context.Context, _ []string) ([]models.Quote, error) {
	return nil, s.wait(ctx)
}

func (s *slowProvider) GetHistory(ctx context.Context, _ string, _ repository.Period) ([]models.Candle, error) {
	return nil, s.wait(ctx)
}

func (s *slowProvider) GetFundamentals(ctx context.Context, _ string) (models.Fundamentals, error) {
	return models.Fundamentals{}, s.wait(ctx)
}

func (s *slowProvider) SearchTicker(ctx context.Context, _ string) ([]models.Quote, error) {
	return nil, s.wait(ctx)
}

func (s *slowProvider) GetMarketSummary(ctx context.Context) (models.MarketSummary, error) {
	return models.MarketSummary{}, s.wait(ctx)
}
