// Package ratelimit throttles calls to a model provider with a token bucket.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter. A nil *Limiter never blocks.
type Limiter struct {
	limit   rate.Limit
	burst   int
	limiter *rate.Limiter
}

// New creates a Limiter allowing requestsPerSecond sustained calls with the given burst.
// A non-positive rate disables limiting and returns nil.
//
//	limiter := ratelimit.New(2.0, 1) // 2 req/s, no burst
func New(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	l := rate.Limit(requestsPerSecond)
	return &Limiter{
		limit:   l,
		burst:   burst,
		limiter: rate.NewLimiter(l, burst),
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// Limit returns the configured sustained rate.
func (l *Limiter) Limit() float64 {
	if l == nil {
		return 0
	}
	return float64(l.limit)
}

// Burst returns the configured burst size.
func (l *Limiter) Burst() int {
	if l == nil {
		return 0
	}
	return l.burst
}
