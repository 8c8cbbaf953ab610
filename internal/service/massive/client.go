// Package massive implements the market data contract against the Massive
// REST API.
package massive

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const (
	DefaultBaseURL      = "https://api.massive.com"
	DefaultRateInterval = 250 * time.Millisecond

	snapshotChunkSize = 50
	searchLimit       = 10
	moversLimit       = 5
)

// Config holds provider settings.
type Config struct {
	APIKey       string
	BaseURL      string
	SymbolLimit  int
	RateInterval time.Duration
	MaxRetries   int
}

// Client talks to the Massive API. All calls go through a shared rate
// limiter; per-symbol upstream failures are logged and absorbed, only
// whole-request failures surface to callers.
type Client struct {
	cfg     Config
	http    *phttp.Client
	limiter *ratelimit.Limiter
	retry   phttp.RetryConfig
	log     *logger.Logger

	mu   sync.RWMutex
	refs map[string]models.Ticker
}

// New creates a Massive API client.
func New(cfg Config, httpClient *phttp.Client, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.RateInterval <= 0 {
		cfg.RateInterval = DefaultRateInterval
	}

	retry := phttp.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: ratelimit.New(cfg.RateInterval),
		retry:   retry,
		log:     log,
		refs:    make(map[string]models.Ticker),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "massive" }

var _ repository.MarketData = (*Client)(nil)

// --- wire types ---

type tickerRef struct {
	Ticker         string `json:"ticker"`
	Name           string `json:"name"`
	Market         string `json:"market"`
	PrimaryExch    string `json:"primary_exchange"`
	CurrencyName   string `json:"currency_name"`
	SicDescription string `json:"sic_description"`
}

type tickerListResponse struct {
	Results []tickerRef `json:"results"`
	NextURL string      `json:"next_url"`
}

type snapshotTicker struct {
	Ticker           string             `json:"ticker"`
	TodaysChangePerc float64            `json:"todaysChangePerc"`
	Day              map[string]float64 `json:"day"`
	LastTrade        map[string]float64 `json:"lastTrade"`
}

type snapshotResponse struct {
	Tickers []snapshotTicker `json:"tickers"`
}

type aggRecord struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

type aggsResponse struct {
	Results []aggRecord `json:"results"`
}

type financialRecord struct {
	Metrics map[string]interface{} `json:"metrics"`
	Ratios  map[string]interface{} `json:"ratios"`
}

type financialsResponse struct {
	Results []financialRecord `json:"results"`
}

// --- operations ---

// GetQuotes resolves snapshots for the given symbols, or for the default
// universe when the list is empty. Symbols without a usable price are
// dropped, not errored.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		universe, err := c.universe(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range universe {
			symbols = append(symbols, t.Symbol)
		}
	}

	quotes := make([]models.Quote, 0, len(symbols))
	for _, chunk := range chunkSymbols(symbols, snapshotChunkSize) {
		var resp snapshotResponse
		err := c.fetch(ctx, "v2/snapshot/locale/us/markets/stocks/tickers", map[string][]string{
			"tickers": {strings.Join(chunk, ",")},
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("massive snapshot: %w", err)
		}

		for _, snap := range resp.Tickers {
			price, ok := resolvePrice(snap)
			if !ok {
				c.log.Debug("snapshot without price, skipping", logger.String("symbol", snap.Ticker))
				continue
			}
			q := models.Quote{
				Symbol:    strings.ToUpper(snap.Ticker),
				Price:     price,
				ChangePct: snap.TodaysChangePerc,
				Volume:    int64(snap.Day["v"]),
			}
			c.enrich(&q)
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

// GetHistory fetches ascending aggregate bars covering the period. Aggregate
// timestamps arrive as unix seconds.
func (c *Client) GetHistory(ctx context.Context, symbol string, period repository.Period) ([]models.Candle, error) {
	from, to := util.PeriodRange(string(period), time.Now().UTC())
	resolution := util.ResolutionForPeriod(string(period))

	path := fmt.Sprintf("v2/aggs/ticker/%s/range/1/%s/%s/%s",
		strings.ToUpper(symbol), resolution,
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	var resp aggsResponse
	err := c.fetch(ctx, path, map[string][]string{
		"adjusted": {"true"},
		"sort":     {"asc"},
		"limit":    {"5000"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("massive aggs %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(resp.Results))
	for _, r := range resp.Results {
		candles = append(candles, models.Candle{
			Timestamp: time.Unix(r.T, 0).UTC().Format(time.RFC3339),
			Open:      r.O,
			High:      r.H,
			Low:       r.L,
			Close:     r.C,
			Volume:    r.V,
		})
	}
	return candles, nil
}

// GetFundamentals returns the latest ratio snapshot. A symbol with no
// financials yields a zero snapshot and no error.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (models.Fundamentals, error) {
	var resp financialsResponse
	path := fmt.Sprintf("v2/reference/financials/%s", strings.ToUpper(symbol))
	err := c.fetch(ctx, path, map[string][]string{"limit": {"1"}}, &resp)
	if err != nil {
		return models.Fundamentals{}, fmt.Errorf("massive financials %s: %w", symbol, err)
	}
	if len(resp.Results) == 0 {
		return models.Fundamentals{}, nil
	}

	rec := resp.Results[0]
	return models.Fundamentals{
		PE:            pick(rec.Metrics, rec.Ratios, "pe_ratio"),
		PS:            pick(rec.Metrics, rec.Ratios, "price_to_sales_ratio"),
		ROE:           pick(rec.Metrics, rec.Ratios, "return_on_equity"),
		DebtToEquity:  pick(rec.Metrics, rec.Ratios, "debt_to_equity"),
		Growth5Y:      pick(rec.Metrics, rec.Ratios, "revenue_growth_five_year"),
		ProfitMargin:  pick(rec.Metrics, rec.Ratios, "net_profit_margin"),
		Beta:          pick(rec.Metrics, rec.Ratios, "beta"),
		DividendYield: pick(rec.Metrics, rec.Ratios, "dividend_yield"),
	}, nil
}

// SearchTicker matches query against the reference listing.
func (c *Client) SearchTicker(ctx context.Context, query string) ([]models.Quote, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var resp tickerListResponse
	err := c.fetch(ctx, "v3/reference/tickers", map[string][]string{
		"search": {query},
		"market": {"stocks"},
		"active": {"true"},
		"limit":  {strconv.Itoa(searchLimit)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("massive search: %w", err)
	}

	matches := make([]models.Quote, 0, len(resp.Results))
	for _, t := range resp.Results {
		matches = append(matches, models.Quote{
			Symbol:   strings.ToUpper(strings.TrimSpace(t.Ticker)),
			Name:     t.Name,
			Sector:   t.SicDescription,
			Market:   t.Market,
			Currency: strings.ToUpper(t.CurrencyName),
		})
		if len(matches) == searchLimit {
			break
		}
	}
	return matches, nil
}

// GetMarketSummary derives the day's top movers by percent change from
// universe snapshots.
func (c *Client) GetMarketSummary(ctx context.Context) (models.MarketSummary, error) {
	quotes, err := c.GetQuotes(ctx, nil)
	if err != nil {
		return models.MarketSummary{}, err
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].ChangePct > quotes[j].ChangePct
	})

	up, down := 0, 0
	for _, q := range quotes {
		if q.ChangePct > 0 {
			up++
		} else if q.ChangePct < 0 {
			down++
		}
	}

	movers := make([]models.Mover, 0, moversLimit)
	for _, q := range quotes {
		movers = append(movers, models.Mover{
			Symbol:    q.Symbol,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
		})
		if len(movers) == moversLimit {
			break
		}
	}

	return models.MarketSummary{
		UpdatedAt: time.Now().UTC(),
		Headline:  fmt.Sprintf("US stocks: %d advancing, %d declining of %d tracked", up, down, len(quotes)),
		Movers:    movers,
	}, nil
}

// universe pages the reference ticker listing up to the symbol limit and
// refreshes the enrichment index.
func (c *Client) universe(ctx context.Context) ([]models.Ticker, error) {
	var tickers []models.Ticker

	nextPath := "v3/reference/tickers"
	params := map[string][]string{
		"market": {"stocks"},
		"active": {"true"},
		"limit":  {"1000"},
	}

	for nextPath != "" {
		var resp tickerListResponse
		if err := c.fetch(ctx, nextPath, params, &resp); err != nil {
			return nil, fmt.Errorf("massive tickers: %w", err)
		}

		for _, t := range resp.Results {
			tickers = append(tickers, models.Ticker{
				Symbol:   strings.ToUpper(strings.TrimSpace(t.Ticker)),
				Name:     t.Name,
				Sector:   t.SicDescription,
				Market:   t.Market,
				Exchange: t.PrimaryExch,
				Currency: strings.ToUpper(t.CurrencyName),
			})
			if c.cfg.SymbolLimit > 0 && len(tickers) >= c.cfg.SymbolLimit {
				c.index(tickers)
				return tickers, nil
			}
		}

		// next_url already carries the cursor query
		nextPath = resp.NextURL
		params = nil
	}

	c.index(tickers)
	return tickers, nil
}

func (c *Client) index(tickers []models.Ticker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tickers {
		c.refs[t.Symbol] = t
	}
}

func (c *Client) enrich(q *models.Quote) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ref, ok := c.refs[q.Symbol]; ok {
		q.Name = ref.Name
		q.Sector = ref.Sector
		q.Market = ref.Market
		q.Currency = ref.Currency
	}
}

// fetch runs one rate-limited, retried GET. path may be a relative endpoint
// or the absolute next_url handed back by pagination.
func (c *Client) fetch(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := path
	if !strings.HasPrefix(path, "http") {
		url = c.cfg.BaseURL + "/" + strings.TrimPrefix(path, "/")
	}

	if query == nil {
		query = make(map[string][]string, 1)
	}
	query["apiKey"] = []string{c.cfg.APIKey}

	return c.http.SendAndParseWithRetry(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         url,
		QueryParams: query,
	}, dest, c.retry)
}

func resolvePrice(snap snapshotTicker) (float64, bool) {
	if p := snap.LastTrade["p"]; p != 0 {
		return p, true
	}
	if p := snap.Day["c"]; p != 0 {
		return p, true
	}
	return 0, false
}

func chunkSymbols(symbols []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		chunks = append(chunks, symbols[start:end])
	}
	return chunks
}

// pick reads a ratio from metrics first, then ratios. Upstream mixes numbers
// and numeric strings across report vintages.
func pick(metrics, ratios map[string]interface{}, key string) float64 {
	value, ok := metrics[key]
	if !ok || value == nil {
		value, ok = ratios[key]
		if !ok || value == nil {
			return 0
		}
	}
	switch v := value.(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}
