// Package scheduler drives periodic background work off cron specs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"StockPulse/pkg/logger"
)

// Scheduler wraps a cron runner with context-aware jobs and panic isolation.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New creates a stopped scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// AddJob registers a named job under a cron spec ("@every 5m" or a standard
// five-field expression). The job receives a context cancelled on Stop.
func (s *Scheduler) AddJob(ctx context.Context, spec, name string, job func(context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("scheduled job panicked",
					logger.String("job", name),
					logger.Any("panic", r))
			}
		}()

		start := time.Now()
		job(ctx)
		s.log.Debug("scheduled job finished",
			logger.String("job", name),
			logger.Duration("took", time.Since(start)))
	})
	if err != nil {
		return err
	}

	s.log.Info("scheduled job registered", logger.String("job", name), logger.String("spec", spec))
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
