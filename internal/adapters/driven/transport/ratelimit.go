package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/invokers/internal/failure"
)

const (
	// DefaultBurst is the token bucket size when only a rate is configured.
	DefaultBurst = 1

	// DefaultBackoff applies after a 429 without a usable Retry-After header.
	DefaultBackoff = 60 * time.Second

	// MaxBackoffWait is the longest Wait blocks on an upstream backoff.
	// Longer backoffs fail fast with ErrThrottled.
	MaxBackoffWait = 5 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// ErrThrottled indicates the upstream asked for a backoff longer than
// MaxBackoffWait.
var ErrThrottled = fmt.Errorf("transport: upstream throttled: %w", failure.ErrUnavailable)

// RateLimiter throttles outbound requests for one profile.
// It combines a token bucket with backoff after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests.
// A non-positive rate disables the token bucket.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request can be made.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		if wait > MaxBackoffWait {
			return ErrThrottled
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Observe records backoff requested by a response.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp.StatusCode != http.StatusTooManyRequests {
		return
	}
	backoff := DefaultBackoff
	if secs, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter)); err == nil && secs >= 0 {
		backoff = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(backoff)
}

// Allow reports whether a request can be made immediately.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
