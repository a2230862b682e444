// Package ratelimit bounds outbound provider calls to a configured ceiling
// per rolling window. Callers block until a slot frees; the limiter never
// rejects, so pressure on the quota becomes backpressure on the caller.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Snapshot is reported on the ops status endpoint, one per provider.
type Snapshot struct {
	Name      string  `json:"name"`
	MaxCalls  int     `json:"max_calls"`
	WindowSec float64 `json:"window_sec"`
	Available float64 `json:"available"`
}

// Limiter serializes quota accounting across every logical caller of one
// provider (scheduler cycles and interactive refreshes share the instance).
type Limiter struct {
	name    string
	max     int
	window  time.Duration
	limiter *rate.Limiter
}

// New builds a token-bucket limiter allowing maxCalls per window. The bucket
// refills continuously at maxCalls/window, so sustained throughput never
// exceeds the provider quota.
func New(name string, maxCalls int, window time.Duration) *Limiter {
	if maxCalls < 1 {
		maxCalls = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Limiter{
		name:    name,
		max:     maxCalls,
		window:  window,
		limiter: rate.NewLimiter(rate.Limit(float64(maxCalls)/window.Seconds()), maxCalls),
	}
}

// Wait blocks until a call slot is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait (%s): %w", l.name, err)
	}
	return nil
}

func (l *Limiter) Snapshot() Snapshot {
	if l == nil || l.limiter == nil {
		return Snapshot{}
	}
	return Snapshot{
		Name:      l.name,
		MaxCalls:  l.max,
		WindowSec: l.window.Seconds(),
		Available: l.limiter.Tokens(),
	}
}
