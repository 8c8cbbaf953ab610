// Package ratelimit serializes outbound provider calls so a refresh burst
// never trips the upstream request quota.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between calls. Wait blocks until the
// caller's slot arrives; callers queue on the internal mutex so requests go
// out one at a time in arrival order.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// New creates a limiter with the given minimum interval between calls.
func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the next slot or until ctx is done. The mutex is held
// through the sleep so concurrent callers are strictly serialized.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if wait := l.next.Sub(now); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now = <-timer.C:
		}
	}

	l.next = now.Add(l.interval)
	return nil
}

// Interval reports the configured spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
