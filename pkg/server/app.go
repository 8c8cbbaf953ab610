package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockPulse/internal/ranking"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle: scheduled refreshes, the
// optional metrics listener, and graceful shutdown.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	screener *usecase.Screener
	sched    *scheduler.Scheduler
	store    cache.Service

	metricsSrv *http.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	screener *usecase.Screener,
	sched *scheduler.Scheduler,
	store cache.Service,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		screener: screener,
		sched:    sched,
		store:    store,
	}
}

// Screener exposes the orchestrator for one-shot CLI runs.
func (a *App) Screener() *usecase.Screener {
	return a.screener
}

// RefreshParams builds the standing refresh parameters from configuration.
func (a *App) RefreshParams() usecase.Params {
	return usecase.Params{
		Options: ranking.Options{
			Sectors:       a.cfg.Screener.Sectors,
			MinScore:      a.cfg.Screener.MinScore,
			MaxVolatility: a.cfg.Screener.MaxVolatility,
		},
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresh := func(ctx context.Context) {
		if _, err := a.screener.Refresh(ctx, a.RefreshParams()); err != nil {
			a.log.Error("refresh failed", applogger.Error(err))
		}
	}

	if err := a.sched.AddJob(ctx, a.cfg.Screener.RefreshCron, "refresh", refresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	a.registerCachePurge(ctx)
	a.sched.Start()

	// Populate the first snapshot without waiting for the cron tick.
	go refresh(ctx)

	if a.cfg.Metrics.Enabled {
		a.startMetricsServer()
	}

	a.log.Info("screener running",
		applogger.String("env", a.cfg.Environment),
		applogger.String("refresh", a.cfg.Screener.RefreshCron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// registerCachePurge schedules expired-row cleanup when the persisted tier
// supports it.
func (a *App) registerCachePurge(ctx context.Context) {
	layered, ok := a.store.(*cache.LayeredCache)
	if !ok {
		return
	}
	purger, ok := layered.Backing().(interface {
		Purge(context.Context) error
	})
	if !ok {
		return
	}

	_ = a.sched.AddJob(ctx, "@every 1h", "cache-purge", func(ctx context.Context) {
		if err := purger.Purge(ctx); err != nil {
			a.log.Warn("cache purge failed", applogger.Error(err))
		}
	})
}

func (a *App) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())

	a.metricsSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("metrics server error", applogger.Error(err))
		}
	}()
	a.log.Info("metrics listener started", applogger.Int("port", a.cfg.Metrics.Port))
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.sched.Stop()

	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.log.Warn("metrics shutdown error", applogger.Error(err))
		}
	}

	if err := a.store.Close(); err != nil {
		a.log.Warn("cache close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
