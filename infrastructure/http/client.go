// Package http builds the outbound HTTP clients used by the feed integrations.
package http

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for a whole request.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxIdleConnsPerHost bounds keep-alive connections per upstream.
	DefaultMaxIdleConnsPerHost = 4
	// DefaultIdleConnTimeout is the default idle connection timeout.
	DefaultIdleConnTimeout = 90 * time.Second
	// DefaultTLSHandshakeTimeout is the default TLS handshake timeout.
	DefaultTLSHandshakeTimeout = 10 * time.Second
	// DefaultUserAgent identifies newsmapper to upstream APIs.
	DefaultUserAgent = "newsmapper/1.0"
)

// ClientConfig configures an HTTP client. Zero values select the defaults.
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	UserAgent           string
}

// NewClient creates an HTTP client with standardized transport settings.
// If cfg is nil, default values are used.
func NewClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	timeout := orDefault(cfg.Timeout, DefaultTimeout)
	maxIdlePerHost := cfg.MaxIdleConnsPerHost
	if maxIdlePerHost == 0 {
		maxIdlePerHost = DefaultMaxIdleConnsPerHost
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: maxIdlePerHost,
		IdleConnTimeout:     orDefault(cfg.IdleConnTimeout, DefaultIdleConnTimeout),
		TLSHandshakeTimeout: orDefault(cfg.TLSHandshakeTimeout, DefaultTLSHandshakeTimeout),
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: transport, userAgent: userAgent},
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}

// userAgentTransport sets a User-Agent on requests that carry none.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
