package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// InitRedis connects to addr and returns nil when redis is not reachable,
// in which case callers run without a cache.
func InitRedis(ctx context.Context, addr string, logger zerolog.Logger) *redis.Client {
	if addr == "" {
		logger.Info().Msg("Redis address not set. Running without Redis.")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("Redis not available. Running without Redis.")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", addr).Msg("Redis connected successfully.")
	return client
}

// Cache stores JSON values with a TTL. A Cache with a nil client misses on
// every read and drops every write.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the value stored at key into dest and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// GetVersion returns the counter stored at key, 0 when unset or unavailable.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if !c.Enabled() {
		return 0
	}
	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps the counter at key so every key derived from the
// old version stops being read.
func (c *Cache) IncrementVersion(ctx context.Context, key string) int64 {
	if !c.Enabled() {
		return 0
	}
	v, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	return v
}
