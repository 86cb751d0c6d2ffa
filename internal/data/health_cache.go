package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultHealthCacheKey is where the provider health report is kept.
const DefaultHealthCacheKey = "health:providers"

// RedisHealthCache stores the provider health report under a single key.
type RedisHealthCache struct {
	client redis.UniversalClient
	key    string
}

// NewRedisHealthCache returns a cache on client. An empty key selects
// DefaultHealthCacheKey.
func NewRedisHealthCache(client redis.UniversalClient, key string) *RedisHealthCache {
	if key == "" {
		key = DefaultHealthCacheKey
	}
	return &RedisHealthCache{client: client, key: key}
}

// Key reports the Redis key in use.
func (c *RedisHealthCache) Key() string { return c.key }

// Load implements core.HealthCache.
func (c *RedisHealthCache) Load(ctx context.Context) ([]byte, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	return raw, nil
}

// Store implements core.HealthCache. A non-positive ttl is rejected so a
// stale report can never outlive its check.
func (c *RedisHealthCache) Store(ctx context.Context, report []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("health cache ttl must be positive")
	}
	if err := c.client.Set(ctx, c.key, report, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

// Invalidate implements core.HealthCache.
func (c *RedisHealthCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
