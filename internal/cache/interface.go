package cache

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_cache.go -package=mocks teamwork/internal/cache Cache,RateLimiter,RefreshTokenStore

// Cache defines the key-value operations the application needs.
type Cache interface {
	// Set stores value as JSON under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get decodes the value under key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error
	// Incr increments the counter under key, starting its TTL window on the
	// first increment, and returns the new count and remaining TTL.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

var _ Cache = (*Redis)(nil)
