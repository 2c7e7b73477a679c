// Package cache keeps recently read brands in Redis.
//
// The cache is best effort: every Redis failure is logged and treated as a
// miss so requests fall through to the document store.
//
// Invalidation leaves a short-lived marker instead of removing the key, and
// fills only write absent keys, so a read that raced a write cannot put the
// old brand back.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "brand-api:brand:"

const (
	// invalidated marks a brand changed by a write; it reads as a miss.
	invalidated = "-"

	// invalidationTTL must outlast a slow store read that started before the write.
	invalidationTTL = 10 * time.Second
)

// BrandCache is a read-through cache of single brands keyed by id.
type BrandCache interface {
	Get(ctx context.Context, id string) (*brand.Brand, bool)
	Set(ctx context.Context, b *brand.Brand)
	Delete(ctx context.Context, id string)
}

// kv is the subset of *redis.Client used by the cache.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisBrandCache stores brands as JSON strings with a fixed TTL.
type RedisBrandCache struct {
	client kv
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewRedisBrandCache(client kv, ttl time.Duration, logger *zerolog.Logger) *RedisBrandCache {
	return &RedisBrandCache{client: client, ttl: ttl, logger: logger}
}

func key(id string) string {
	return keyPrefix + id
}

func (c *RedisBrandCache) Get(ctx context.Context, id string) (*brand.Brand, bool) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("brand_id", id).Msg("brand cache read failed")
		}
		return nil, false
	}
	if string(data) == invalidated {
		return nil, false
	}

	var b brand.Brand
	if err := json.Unmarshal(data, &b); err != nil {
		c.logger.Warn().Err(err).Str("brand_id", id).Msg("dropping undecodable cached brand")
		if err := c.client.Del(ctx, key(id)).Err(); err != nil {
			c.logger.Warn().Err(err).Str("brand_id", id).Msg("brand cache delete failed")
		}
		return nil, false
	}
	return &b, true
}

// Set fills the cache after a store read. An existing entry, including an
// invalidation marker, is left untouched.
func (c *RedisBrandCache) Set(ctx context.Context, b *brand.Brand) {
	data, err := json.Marshal(b)
	if err != nil {
		c.logger.Warn().Err(err).Msg("brand cache encode failed")
		return
	}

	id := b.ID.Hex()
	if err := c.client.SetNX(ctx, key(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("brand_id", id).Msg("brand cache write failed")
	}
}

// Delete invalidates a brand after a write.
func (c *RedisBrandCache) Delete(ctx context.Context, id string) {
	if err := c.client.Set(ctx, key(id), invalidated, invalidationTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("brand_id", id).Msg("brand cache invalidation failed")
	}
}

// Noop is used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) (*brand.Brand, bool) { return nil, false }
func (Noop) Set(context.Context, *brand.Brand)                {}
func (Noop) Delete(context.Context, string)                   {}
