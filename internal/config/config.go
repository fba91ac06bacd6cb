// Package config provides configuration management for newsmapper.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/elizabethzhu1/newsmapper/infrastructure/config"
	"github.com/elizabethzhu1/newsmapper/infrastructure/elasticsearch"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	infraredis "github.com/elizabethzhu1/newsmapper/infrastructure/redis"
	"github.com/elizabethzhu1/newsmapper/internal/feeds"
	"github.com/elizabethzhu1/newsmapper/internal/layout"
	"github.com/elizabethzhu1/newsmapper/internal/pipeline"
	"github.com/elizabethzhu1/newsmapper/internal/storage"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "config.yml"

// Default configuration values.
const (
	defaultServiceName       = "newsmapper"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8080
	defaultRequestsPerSecond = 5.0
	defaultFeedBurst         = 5
	defaultFeedTimeout       = 10 * time.Second
	defaultRefreshSchedule   = "@every 1h"
)

// Config holds all configuration for newsmapper.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Logging       logger.Config       `yaml:"logging"`
	Feeds         FeedsConfig         `yaml:"feeds"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Layout        LayoutConfig        `yaml:"layout"`
}

// ServiceConfig holds HTTP service settings.
type ServiceConfig struct {
	Name           string   `yaml:"name"`
	Version        string   `yaml:"version"`
	Port           int      `env:"NEWSMAPPER_PORT"  yaml:"port"`
	Debug          bool     `env:"APP_DEBUG"        yaml:"debug"`
	Concurrency    int      `yaml:"concurrency"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"  yaml:"allowed_origins"`
}

// FeedsConfig holds upstream news API settings.
type FeedsConfig struct {
	NYTimes           feeds.NYTimesConfig  `yaml:"nytimes"`
	Guardian          feeds.GuardianConfig `yaml:"guardian"`
	RequestsPerSecond float64              `yaml:"requests_per_second"`
	Burst             int                  `yaml:"burst"`
	Timeout           time.Duration        `yaml:"timeout"`
}

// RedisConfig holds headline cache settings. Key prefix and TTL live on
// the embedded connection config.
type RedisConfig struct {
	Enabled           bool `env:"REDIS_ENABLED" yaml:"enabled"`
	infraredis.Config `yaml:",inline"`
}

// ElasticsearchConfig holds headline archive settings.
type ElasticsearchConfig struct {
	Enabled              bool   `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
	Index                string `env:"ELASTICSEARCH_INDEX"   yaml:"index"`
	elasticsearch.Config `yaml:",inline"`
}

// LayoutConfig holds layout and refresh settings.
type LayoutConfig struct {
	// DefaultZoom is used by the layout route when no zoom is given.
	DefaultZoom float64 `yaml:"default_zoom"`
	// RefreshSchedule is a cron spec for the background cache refresh.
	RefreshSchedule string `env:"REFRESH_SCHEDULE" yaml:"refresh_schedule"`
}

// Load loads configuration from the specified path. A missing file yields
// the defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if errors.Is(err, infraconfig.ErrConfigNotFound) {
		cfg = &Config{}
		infraconfig.ApplyEnvOverrides(cfg)
		setDefaults(cfg)
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	cfg.Logging.SetDefaults()
	setFeedDefaults(&cfg.Feeds)
	setRedisDefaults(&cfg.Redis)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setLayoutDefaults(&cfg.Layout)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = pipeline.DefaultConcurrency
	}
	if len(s.AllowedOrigins) == 0 {
		s.AllowedOrigins = []string{"*"}
	}
}

func setFeedDefaults(f *FeedsConfig) {
	if f.RequestsPerSecond == 0 {
		f.RequestsPerSecond = defaultRequestsPerSecond
	}
	if f.Burst == 0 {
		f.Burst = defaultFeedBurst
	}
	if f.Timeout == 0 {
		f.Timeout = defaultFeedTimeout
	}
}

func setRedisDefaults(r *RedisConfig) {
	r.Config.SetDefaults()
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.Index == "" {
		e.Index = storage.DefaultIndex
	}
	e.Config.SetDefaults()
}

func setLayoutDefaults(l *LayoutConfig) {
	if l.DefaultZoom == 0 {
		l.DefaultZoom = layout.MinZoom
	}
	if l.RefreshSchedule == "" {
		l.RefreshSchedule = defaultRefreshSchedule
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Service.Concurrency < 1 {
		return &infraconfig.ValidationError{
			Field:   "service.concurrency",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Service.Concurrency),
		}
	}
	if c.Feeds.RequestsPerSecond < 0 {
		return &infraconfig.ValidationError{Field: "feeds.requests_per_second", Message: "must not be negative"}
	}
	if c.Layout.DefaultZoom < layout.MinZoom || c.Layout.DefaultZoom > layout.MaxZoom {
		return &infraconfig.ValidationError{
			Field:   "layout.default_zoom",
			Message: fmt.Sprintf("must be between %v and %v", layout.MinZoom, layout.MaxZoom),
		}
	}
	if c.Elasticsearch.Enabled {
		if err := infraconfig.ValidateURL("elasticsearch.url", c.Elasticsearch.URL); err != nil {
			return err
		}
	}
	return nil
}
