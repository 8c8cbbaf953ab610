package di

import (
	"fmt"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/service/marketdata"
	"StockPulse/internal/service/massive"
	"StockPulse/internal/service/sample"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	phttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus recorder, or a no-op one when the
// metrics listener is disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if cfg.Metrics.Enabled {
		return metrics.New()
	}
	return metrics.NewNoop()
}

// ProvideCache builds the cache stack: an in-memory L1, optionally layered
// over a SQLite or Redis persisted tier.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Persistent.Type {
	case "sqlite":
		backing, err := cache.NewSQLiteCache(cfg.Cache.Persistent.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite cache: %w", err)
		}
		return cache.NewLayeredCache(backing, cache.WithLayeredMemorySize(cfg.Cache.MemorySize)), nil

	case "redis":
		r := cfg.Cache.Persistent.Redis
		backing, err := cache.NewRedisCache(
			cache.WithRedisAddr(r.Addr),
			cache.WithRedisPassword(r.Password),
			cache.WithRedisDB(r.DB),
			cache.WithRedisPrefix(r.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(backing, cache.WithLayeredMemorySize(cfg.Cache.MemorySize)), nil

	default:
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *phttp.Client {
	return phttp.NewClient(phttp.WithTimeout(cfg.Massive.FetchTimeout))
}

// ProvideProviders assembles the market data fallback chain. Massive leads
// when an API key is configured; the synthetic provider always closes the
// chain so the screener keeps working offline.
func ProvideProviders(cfg *config.Config, httpClient *phttp.Client, log *logger.Logger) []marketdata.Provider {
	var providers []marketdata.Provider

	if cfg.Massive.APIKey != "" {
		providers = append(providers, massive.New(massive.Config{
			APIKey:       cfg.Massive.APIKey,
			BaseURL:      cfg.Massive.BaseURL,
			SymbolLimit:  cfg.Massive.SymbolLimit,
			RateInterval: cfg.Massive.RateInterval,
			MaxRetries:   cfg.Massive.MaxRetries,
		}, httpClient, log))
	} else {
		log.Warn("no Massive API key configured, serving synthetic data only")
	}

	return append(providers, sample.New())
}

// ProvideMarketData wraps the provider chain with caching and degradation.
func ProvideMarketData(
	providers []marketdata.Provider,
	store cache.Service,
	cfg *config.Config,
	log *logger.Logger,
	m repository.Metrics,
) repository.MarketData {
	ttl := marketdata.TTLConfig{
		Quote:        cfg.Cache.TTL.Quote,
		History:      cfg.Cache.TTL.History,
		Fundamentals: cfg.Cache.TTL.Fundamentals,
		Search:       cfg.Cache.TTL.Search,
		Summary:      cfg.Cache.TTL.Summary,
	}
	return marketdata.NewResilient(providers, store, ttl, cfg.Massive.FetchTimeout, log, m)
}

// ProvideScreener creates the screening orchestrator.
func ProvideScreener(data repository.MarketData, cfg *config.Config, log *logger.Logger, m repository.Metrics) *usecase.Screener {
	return usecase.NewScreener(data, usecase.Config{
		Symbols:          cfg.Screener.Symbols,
		FetchConcurrency: cfg.Screener.FetchConcurrency,
		BatchSize:        cfg.Screener.BatchSize,
		Period:           repository.NormalizePeriod(cfg.Screener.Period),
	}, log, m)
}

// ProvideScheduler creates the cron scheduler.
func ProvideScheduler(log *logger.Logger) *scheduler.Scheduler {
	return scheduler.New(log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	screener *usecase.Screener,
	sched *scheduler.Scheduler,
	store cache.Service,
) *server.App {
	return server.New(cfg, log, screener, sched, store)
}
