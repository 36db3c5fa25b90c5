package cache

import (
	"context"
	"log/slog"
	"time"
)

// RateDecision is the outcome of a rate limit check.
type RateDecision struct {
	Allowed    bool
	Count      int
	Limit      int
	ResetAfter time.Duration
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) RateDecision
}

type cacheRateLimiter struct {
	cache   Cache
	timeout time.Duration
}

// NewRateLimiter creates a fixed-window RateLimiter on top of cache.
// When the cache is unavailable requests are allowed.
func NewRateLimiter(cache Cache) RateLimiter {
	return &cacheRateLimiter{
		cache:   cache,
		timeout: 250 * time.Millisecond,
	}
}

// Allow records one request for key and reports whether it fits in limit.
// A non-positive limit disables limiting.
func (rl *cacheRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true, Limit: limit}
	}
	if window <= 0 {
		window = time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	count, ttl, err := rl.cache.Incr(ctx, key, window)
	if err != nil {
		slog.ErrorContext(ctx, "rate limiter unavailable", "key", key, "error", err)
		return RateDecision{Allowed: true, Limit: limit, ResetAfter: window}
	}

	return RateDecision{
		Allowed:    int(count) <= limit,
		Count:      int(count),
		Limit:      limit,
		ResetAfter: ttl,
	}
}
