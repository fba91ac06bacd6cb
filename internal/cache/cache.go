// Package cache stores resolved headlines in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	infraredis "github.com/elizabethzhu1/newsmapper/infrastructure/redis"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// Namespace is the key kind under the configured prefix.
	Namespace = "headlines"
	// AllSourcesKey caches the merged feed.
	AllSourcesKey = "all"

	sourceKeyPrefix = "source:"
)

// SourceKey is the key for one source's list. It never collides with
// AllSourcesKey, whatever the source is called.
func SourceKey(name string) string {
	return sourceKeyPrefix + name
}

// HeadlineCache is a JSON-encoded Redis cache of resolved items.
type HeadlineCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New creates a HeadlineCache using cfg's key prefix and TTL. Unset values
// take the infrastructure defaults.
func New(client *redis.Client, cfg infraredis.Config) *HeadlineCache {
	cfg.SetDefaults()
	return &HeadlineCache{client: client, ttl: cfg.TTL, prefix: cfg.Namespace(Namespace)}
}

// StorageKey returns the full Redis key for key.
func (c *HeadlineCache) StorageKey(key string) string {
	return c.prefix + key
}

// Get returns the cached items for key. A miss returns ok=false and no error.
func (c *HeadlineCache) Get(ctx context.Context, key string) ([]domain.ResolvedItem, bool, error) {
	raw, err := c.client.Get(ctx, c.StorageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var items []domain.ResolvedItem
	if err = json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return items, true, nil
}

// Set stores items under key with the cache TTL.
func (c *HeadlineCache) Set(ctx context.Context, key string, items []domain.ResolvedItem) error {
	if items == nil {
		items = []domain.ResolvedItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err = c.client.Set(ctx, c.StorageKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes key.
func (c *HeadlineCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.StorageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *HeadlineCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
