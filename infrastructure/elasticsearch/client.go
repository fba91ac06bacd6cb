// Package elasticsearch creates verified go-elasticsearch clients.
package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/infrastructure/retry"
)

const (
	defaultURL         = "http://localhost:9200"
	defaultMaxRetries  = 3
	defaultPingTimeout = 5 * time.Second
)

// Config holds Elasticsearch client configuration.
type Config struct {
	URL      string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	APIKey   string `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`
	// MaxRetries is the transport-level retry count.
	MaxRetries  int           `yaml:"max_retries"`
	PingTimeout time.Duration `yaml:"ping_timeout"`
	// Retry governs connection verification at startup.
	Retry retry.Config `yaml:"-"`
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = defaultPingTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}

// NewClient creates an Elasticsearch client and verifies the connection,
// retrying the ping with exponential backoff.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*es.Client, error) {
	cfg.SetDefaults()
	url := normalizeURL(cfg.URL)

	clientConfig := es.Config{
		Addresses:  []string{url},
		MaxRetries: cfg.MaxRetries,
	}
	switch {
	case cfg.APIKey != "":
		clientConfig.APIKey = cfg.APIKey
	case cfg.Username != "" && cfg.Password != "":
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	log.Info("Verifying Elasticsearch connection", logger.String("url", url))

	if err = retry.Retry(ctx, cfg.Retry, func() error {
		return ping(ctx, client, cfg.PingTimeout)
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch after retries: %w", err)
	}

	log.Info("Elasticsearch connection established", logger.String("url", url))
	return client, nil
}

func normalizeURL(url string) string {
	if url == "" {
		return defaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func ping(ctx context.Context, client *es.Client, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("ping returned error [%s]: %s", res.Status(), string(body))
	}
	return nil
}
