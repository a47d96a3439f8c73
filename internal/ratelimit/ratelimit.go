package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/synergy/internal/model"
)

// Limiter enforces a minimum delay between requests to the same provider.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: provider name
	minDelay time.Duration
}

// NewLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same provider.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to key.
// Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, key string) error {
	r.mu.Lock()
	last, ok := r.lastCall[key]
	now := time.Now()

	if !ok {
		// First request for this provider, no wait needed.
		r.lastCall[key] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[key] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[key] = time.Now()
	r.mu.Unlock()

	return nil
}

var _ model.Completer = (*RateLimitedCompleter)(nil)

// RateLimitedCompleter is a decorator that waits for the limiter before
// delegating to the wrapped Completer.
type RateLimitedCompleter struct {
	inner    model.Completer
	limiter  *Limiter
	provider string
}

// NewRateLimitedCompleter wraps a Completer with provider-level rate limiting.
// Completers targeting the same provider should share the same limiter instance.
func NewRateLimitedCompleter(inner model.Completer, limiter *Limiter, provider string) *RateLimitedCompleter {
	return &RateLimitedCompleter{
		inner:    inner,
		limiter:  limiter,
		provider: provider,
	}
}

// Complete waits for the rate limiter to allow a request, then delegates.
func (c *RateLimitedCompleter) Complete(ctx context.Context, messages []model.Message) (string, error) {
	if err := c.limiter.Wait(ctx, c.provider); err != nil {
		return "", err
	}
	return c.inner.Complete(ctx, messages)
}
