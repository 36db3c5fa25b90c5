package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrFamilyNotFound is returned when a refresh token family does not exist.
var ErrFamilyNotFound = errors.New("refresh token family not found")

// RefreshTokenData is the state of one refresh token family. Each login
// starts a family; every refresh rotates its current hash.
type RefreshTokenData struct {
	UserID            string    `json:"user_id"`
	CurrentTokenHash  string    `json:"current_token_hash"`
	PreviousTokenHash string    `json:"previous_token_hash,omitempty"`
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// RefreshTokenStore manages refresh token families.
type RefreshTokenStore interface {
	Create(ctx context.Context, familyID string, data *RefreshTokenData, ttl time.Duration) error
	Get(ctx context.Context, familyID string) (*RefreshTokenData, error)
	Rotate(ctx context.Context, familyID string, newTokenHash string, ttl time.Duration) error
	Delete(ctx context.Context, familyID string) error
}

// RedisClientProvider exposes the underlying Redis client.
type RedisClientProvider interface {
	Client() *redis.Client
}

type refreshTokenStore struct {
	cache  Cache
	client *redis.Client
}

// NewRefreshTokenStore creates a RefreshTokenStore. Rotation is atomic when
// cache also implements RedisClientProvider.
func NewRefreshTokenStore(cache Cache) RefreshTokenStore {
	store := &refreshTokenStore{cache: cache}
	if provider, ok := cache.(RedisClientProvider); ok {
		store.client = provider.Client()
	}
	return store
}

func refreshTokenFamilyKey(familyID string) string {
	return fmt.Sprintf("refresh_token:%s", familyID)
}

// Create stores a new family.
func (s *refreshTokenStore) Create(ctx context.Context, familyID string, data *RefreshTokenData, ttl time.Duration) error {
	return s.cache.Set(ctx, refreshTokenFamilyKey(familyID), data, ttl)
}

// Get returns a family, or nil if it does not exist.
func (s *refreshTokenStore) Get(ctx context.Context, familyID string) (*RefreshTokenData, error) {
	var data RefreshTokenData
	found, err := s.cache.Get(ctx, refreshTokenFamilyKey(familyID), &data)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &data, nil
}

// rotateScript moves the current hash to previous and stores the new one in
// a single step.
var rotateScript = redis.NewScript(`
local data = redis.call('GET', KEYS[1])
if not data then
    return redis.error_reply("refresh token family not found")
end

local decoded = cjson.decode(data)
decoded.previous_token_hash = decoded.current_token_hash
decoded.current_token_hash = ARGV[1]

redis.call('SET', KEYS[1], cjson.encode(decoded), 'EX', tonumber(ARGV[2]))
return "OK"
`)

// Rotate makes newTokenHash current and keeps the old hash for reuse
// detection.
func (s *refreshTokenStore) Rotate(ctx context.Context, familyID string, newTokenHash string, ttl time.Duration) error {
	if s.client == nil {
		return s.rotateWithCache(ctx, familyID, newTokenHash, ttl)
	}

	key := refreshTokenFamilyKey(familyID)
	_, err := rotateScript.Run(ctx, s.client, []string{key}, newTokenHash, int(ttl.Seconds())).Result()
	if err != nil {
		if strings.Contains(err.Error(), ErrFamilyNotFound.Error()) {
			return ErrFamilyNotFound
		}
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return nil
}

// rotateWithCache rotates through the Cache interface; it is not atomic.
func (s *refreshTokenStore) rotateWithCache(ctx context.Context, familyID string, newTokenHash string, ttl time.Duration) error {
	data, err := s.Get(ctx, familyID)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrFamilyNotFound
	}

	data.PreviousTokenHash = data.CurrentTokenHash
	data.CurrentTokenHash = newTokenHash

	return s.cache.Set(ctx, refreshTokenFamilyKey(familyID), data, ttl)
}

// Delete removes a family.
func (s *refreshTokenStore) Delete(ctx context.Context, familyID string) error {
	return s.cache.Delete(ctx, refreshTokenFamilyKey(familyID))
}
