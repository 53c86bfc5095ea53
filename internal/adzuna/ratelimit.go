package adzuna

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between calls to the external
// API. It is consulted before every request rather than woven into the
// sync loop's control flow, so the pacing policy stays in one place.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateLimiter returns a limiter allowing one call per interval.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed,
// or ctx is done. The first call never waits.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if !r.last.IsZero() {
		if elapsed := now.Sub(r.last); elapsed < r.interval {
			wait = r.interval - elapsed
		}
	}
	r.last = now.Add(wait)
	r.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
