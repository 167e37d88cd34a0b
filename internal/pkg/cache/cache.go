// Package cache stores read-mostly directory data (facets, top lists) in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

// Cache keys shared by the scholarship directory
const (
	KeyPrefixScholarships = "scholarships:"
	KeyFacets             = KeyPrefixScholarships + "facets"
	KeyTopPrefix          = KeyPrefixScholarships + "top:"
)

// Cache is a small JSON key/value cache. Implementations never fail reads
// hard: a miss and a backend error both report found=false.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, value any)
	DeletePrefix(ctx context.Context, prefix string)
}

// RedisCache implements Cache on a go-redis client
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache returns a Cache backed by client, or a NopCache when client is nil
func NewRedisCache(client *redis.Client, ttl time.Duration, lgr zerolog.Logger) Cache {
	if client == nil {
		return NopCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.Component(lgr, "cache"),
	}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}
	return true
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache value not serializable")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// DeletePrefix drops every key under prefix using SCAN
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Str("prefix", prefix).Msg("Cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Str("prefix", prefix).Msg("Cache invalidation failed")
	}
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) bool { return false }
func (NopCache) SetJSON(context.Context, string, any)      {}
func (NopCache) DeletePrefix(context.Context, string)      {}

// TopKey builds the cache key of a top list
func TopKey(sort string, limit int) string {
	return fmt.Sprintf("%s%s:%d", KeyTopPrefix, sort, limit)
}

// Connect creates a Redis client and pings it. An empty addr yields (nil, nil).
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
