package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CatalogCache fronts catalog list reads with redis. Catalogs are
// read-mostly, so a short TTL plus invalidation on writes keeps them
// fresh enough. A nil receiver or client disables caching.
type CatalogCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCatalogCache creates a cache over the given redis client.
func NewCatalogCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CatalogCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// get loads a cached value into dest. Cache misses and redis errors
// both report false; the caller falls through to the database.
func (c *CatalogCache) get(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("catalog cache entry corrupt, dropping")
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

func (c *CatalogCache) invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("catalog cache invalidation failed")
	}
}
