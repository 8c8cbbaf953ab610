// Package sample is an offline market data provider with a small fixed
// universe. It backs demo runs without credentials and serves as the fallback
// when the live provider is down.
package sample

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/util"
)

type instrument struct {
	quote        models.Quote
	fundamentals models.Fundamentals
	// drift is the daily trend in percent, amplitude the swing around it.
	drift     float64
	amplitude float64
}

// Provider serves deterministic synthetic data. The same symbol and period
// always produce the same series, which keeps scores stable across runs.
type Provider struct {
	universe []instrument
	bySymbol map[string]instrument
	now      func() time.Time
}

// New creates the sample provider.
func New() *Provider {
	p := &Provider{now: time.Now}
	p.universe = defaultUniverse()
	p.bySymbol = make(map[string]instrument, len(p.universe))
	for _, inst := range p.universe {
		p.bySymbol[inst.quote.Symbol] = inst
	}
	return p
}

// Name identifies the provider in logs and metrics.
func (p *Provider) Name() string { return "sample" }

var _ repository.MarketData = (*Provider)(nil)

func (p *Provider) GetQuotes(_ context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		quotes := make([]models.Quote, 0, len(p.universe))
		for _, inst := range p.universe {
			quotes = append(quotes, inst.quote)
		}
		return quotes, nil
	}

	quotes := make([]models.Quote, 0, len(symbols))
	for _, s := range symbols {
		if inst, ok := p.bySymbol[strings.ToUpper(s)]; ok {
			quotes = append(quotes, inst.quote)
		}
	}
	return quotes, nil
}

// GetHistory synthesizes a daily series from the instrument's drift and a
// sine swing, seeded by the symbol so series differ per instrument.
func (p *Provider) GetHistory(_ context.Context, symbol string, period repository.Period) ([]models.Candle, error) {
	inst, ok := p.bySymbol[strings.ToUpper(symbol)]
	if !ok {
		return nil, nil
	}

	from, to := util.PeriodRange(string(period), p.now().UTC())
	days := int(to.Sub(from).Hours() / 24)
	if days <= 0 {
		return nil, nil
	}

	seed := float64(symbolSeed(inst.quote.Symbol) % 17)
	base := inst.quote.Price / (1 + inst.drift/100*float64(days))
	if base <= 0 {
		base = inst.quote.Price
	}

	candles := make([]models.Candle, 0, days)
	for i := 0; i < days; i++ {
		trend := base * (1 + inst.drift/100*float64(i))
		swing := inst.amplitude * math.Sin(float64(i)/5+seed)
		close := trend + swing
		if close < 1 {
			close = 1
		}
		spread := inst.amplitude / 2
		if spread < 0.25 {
			spread = 0.25
		}
		ts := from.AddDate(0, 0, i)
		candles = append(candles, models.Candle{
			Timestamp: ts.Format(time.RFC3339),
			Open:      close - spread/2,
			High:      close + spread,
			Low:       close - spread,
			Close:     close,
			Volume:    float64(100000 + 1000*(i%50)),
		})
	}
	return candles, nil
}

func (p *Provider) GetFundamentals(_ context.Context, symbol string) (models.Fundamentals, error) {
	inst, ok := p.bySymbol[strings.ToUpper(symbol)]
	if !ok {
		return models.Fundamentals{}, nil
	}
	return inst.fundamentals, nil
}

func (p *Provider) SearchTicker(_ context.Context, query string) ([]models.Quote, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	var matches []models.Quote
	for _, inst := range p.universe {
		if strings.Contains(strings.ToLower(inst.quote.Symbol), query) ||
			strings.Contains(strings.ToLower(inst.quote.Name), query) {
			matches = append(matches, inst.quote)
			if len(matches) == 10 {
				break
			}
		}
	}
	return matches, nil
}

func (p *Provider) GetMarketSummary(_ context.Context) (models.MarketSummary, error) {
	quotes, _ := p.GetQuotes(context.Background(), nil)

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].ChangePct > quotes[j].ChangePct
	})

	movers := make([]models.Mover, 0, 5)
	for _, q := range quotes {
		movers = append(movers, models.Mover{
			Symbol:    q.Symbol,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
		})
		if len(movers) == 5 {
			break
		}
	}

	return models.MarketSummary{
		UpdatedAt: p.now().UTC(),
		Headline:  fmt.Sprintf("Sample universe: %d instruments tracked", len(p.universe)),
		Movers:    movers,
	}, nil
}

func symbolSeed(symbol string) int {
	seed := 0
	for _, r := range symbol {
		seed = seed*31 + int(r)
	}
	if seed < 0 {
		seed = -seed
	}
	return seed
}

func defaultUniverse() []instrument {
	return []instrument{
		{
			quote:        models.Quote{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology", Price: 212.5, ChangePct: 0.8, Volume: 48_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 28, PS: 7.2, ROE: 36, DebtToEquity: 1.4, Growth5Y: 9, ProfitMargin: 25, Beta: 1.2, DividendYield: 0.5},
			drift:        0.08, amplitude: 2.5,
		},
		{
			quote:        models.Quote{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", Price: 415.0, ChangePct: 0.4, Volume: 22_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 33, PS: 11, ROE: 39, DebtToEquity: 0.5, Growth5Y: 14, ProfitMargin: 34, Beta: 0.95, DividendYield: 0.8},
			drift:        0.1, amplitude: 3,
		},
		{
			quote:        models.Quote{Symbol: "NVDA", Name: "NVIDIA Corporation", Sector: "Technology", Price: 128.4, ChangePct: 2.7, Volume: 310_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 62, PS: 29, ROE: 91, DebtToEquity: 0.4, Growth5Y: 38, ProfitMargin: 49, Beta: 1.7, DividendYield: 0.03},
			drift:        0.25, amplitude: 5,
		},
		{
			quote:        models.Quote{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Financials", Price: 198.7, ChangePct: -0.3, Volume: 9_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 12, PS: 3.9, ROE: 17, DebtToEquity: 1.3, Growth5Y: 6, ProfitMargin: 32, Beta: 1.1, DividendYield: 2.3},
			drift:        0.04, amplitude: 2,
		},
		{
			quote:        models.Quote{Symbol: "BAC", Name: "Bank of America Corporation", Sector: "Financials", Price: 39.8, ChangePct: -0.9, Volume: 35_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 13, PS: 2.8, ROE: 9, DebtToEquity: 1.1, Growth5Y: 3, ProfitMargin: 27, Beta: 1.3, DividendYield: 2.6},
			drift:        0.01, amplitude: 0.8,
		},
		{
			quote:        models.Quote{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: "Health Care", Price: 158.2, ChangePct: 0.2, Volume: 6_500_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 15, PS: 4.2, ROE: 29, DebtToEquity: 0.5, Growth5Y: 4, ProfitMargin: 18, Beta: 0.55, DividendYield: 3.1},
			drift:        0.02, amplitude: 1.2,
		},
		{
			quote:        models.Quote{Symbol: "PFE", Name: "Pfizer Inc.", Sector: "Health Care", Price: 27.6, ChangePct: -1.4, Volume: 40_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 17, PS: 2.6, ROE: 7, DebtToEquity: 0.7, Growth5Y: 1, ProfitMargin: 10, Beta: 0.6, DividendYield: 6.1},
			drift:        -0.05, amplitude: 0.9,
		},
		{
			quote:        models.Quote{Symbol: "XOM", Name: "Exxon Mobil Corporation", Sector: "Energy", Price: 114.3, ChangePct: 1.1, Volume: 15_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 14, PS: 1.3, ROE: 18, DebtToEquity: 0.2, Growth5Y: 8, ProfitMargin: 10, Beta: 0.9, DividendYield: 3.3},
			drift:        0.03, amplitude: 2.8,
		},
		{
			quote:        models.Quote{Symbol: "CVX", Name: "Chevron Corporation", Sector: "Energy", Price: 152.9, ChangePct: 0.6, Volume: 7_500_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 15, PS: 1.5, ROE: 12, DebtToEquity: 0.15, Growth5Y: 7, ProfitMargin: 9, Beta: 1.05, DividendYield: 4.2},
			drift:        0.02, amplitude: 3.1,
		},
		{
			quote:        models.Quote{Symbol: "KO", Name: "The Coca-Cola Company", Sector: "Consumer Staples", Price: 63.1, ChangePct: 0.1, Volume: 11_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 24, PS: 6, ROE: 42, DebtToEquity: 1.6, Growth5Y: 5, ProfitMargin: 23, Beta: 0.6, DividendYield: 3.0},
			drift:        0.02, amplitude: 0.6,
		},
		{
			quote:        models.Quote{Symbol: "WMT", Name: "Walmart Inc.", Sector: "Consumer Staples", Price: 68.9, ChangePct: 0.5, Volume: 18_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 29, PS: 1.1, ROE: 21, DebtToEquity: 0.7, Growth5Y: 4, ProfitMargin: 2.6, Beta: 0.5, DividendYield: 1.2},
			drift:        0.06, amplitude: 0.9,
		},
		{
			quote:        models.Quote{Symbol: "TSLA", Name: "Tesla, Inc.", Sector: "Consumer Discretionary", Price: 248.5, ChangePct: -2.1, Volume: 95_000_000, Currency: "USD", Market: "stocks"},
			fundamentals: models.Fundamentals{PE: 70, PS: 9, ROE: 20, DebtToEquity: 0.1, Growth5Y: 32, ProfitMargin: 13, Beta: 2.0},
			drift:        -0.08, amplitude: 8,
		},
	}
}
