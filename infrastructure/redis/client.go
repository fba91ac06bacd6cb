// Package redis builds verified go-redis clients and the key namespace and
// expiry shared by everything stored through them.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultAddress is the local development server.
	DefaultAddress = "localhost:6379"
	// DefaultKeyPrefix namespaces every key written by this service.
	DefaultKeyPrefix = "newsmapper:"
	// DefaultTTL is the expiry for cached values.
	DefaultTTL = time.Hour

	connectionTimeout = 5 * time.Second
)

// ErrEmptyAddress is returned when Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// Config holds the Redis connection and the key layout used on it.
type Config struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
	// KeyPrefix is prepended to every key; several deployments can then
	// share one database.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" yaml:"key_prefix"`
	// TTL is the expiry applied to cached values.
	TTL time.Duration `env:"REDIS_TTL" yaml:"ttl"`
}

// SetDefaults fills unset fields. An explicitly empty prefix cannot be
// expressed; use a distinct prefix instead.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
}

// Namespace returns the key prefix for one kind of value, e.g.
// "newsmapper:headlines:" for Namespace("headlines").
func (c Config) Namespace(kind string) string {
	return c.KeyPrefix + strings.Trim(kind, ":") + ":"
}

// NewClient creates a Redis client and verifies the connection with PING.
func NewClient(cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}

	return client, nil
}
