package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/authkit/identity-api/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// UserCache caches password-free user views in Redis.
// Key format: user:<id>
// The password hash never enters the cache: domain.User marshals without it.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewUserCache creates a UserCache wrapping the given Redis client.
// If ttl <= 0, defaultCacheTTL is used.
func NewUserCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached view for id. Backend errors and misses both report
// false; the caller falls back to the repository.
func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
		}
		return nil, false
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache entry corrupt, dropping")
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &user, true
}

// Set stores a view with the configured TTL. Failures are logged, not surfaced.
func (c *UserCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", user.ID).Msg("user cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.key(user.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", user.ID).Msg("user cache write failed")
	}
}

// Invalidate removes the entry for id, if any.
func (c *UserCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
