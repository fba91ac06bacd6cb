// Package feeds fetches world headlines from the New York Times and
// Guardian APIs and maps them to raw articles.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/elizabethzhu1/newsmapper/infrastructure/circuitbreaker"
	infraerrors "github.com/elizabethzhu1/newsmapper/infrastructure/errors"
	infrahttp "github.com/elizabethzhu1/newsmapper/infrastructure/http"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/infrastructure/retry"
	"golang.org/x/time/rate"
)

// ErrMissingAPIKey disables a source that has no API key configured.
var ErrMissingAPIKey = errors.New("api key not configured")

const (
	defaultRequestsPerSecond = 1.0
	defaultBurst             = 2
	maxResponseBytes         = 8 << 20
)

// Options configures the transport shared by the feed clients. Zero values
// select defaults.
type Options struct {
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
	Retry             retry.Config
	Breaker           circuitbreaker.Config
}

type apiClient struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.Breaker
	retry   retry.Config
	logger  logger.Logger
}

func newAPIClient(name string, opts Options, log logger.Logger) *apiClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = infrahttp.NewClient(nil)
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	if log == nil {
		log = logger.NewNop()
	}

	breakerCfg := opts.Breaker
	breakerCfg.OnStateChange = func(from, to circuitbreaker.State) {
		log.Warn("Circuit breaker state changed",
			logger.String("source", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	}

	return &apiClient{
		name:    name,
		http:    opts.HTTPClient,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker: circuitbreaker.New(breakerCfg),
		retry:   opts.Retry,
		logger:  log,
	}
}

// getJSON issues a rate-limited GET through the circuit breaker, retrying
// transient failures, and decodes the response body into out.
func (c *apiClient) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	err := c.breaker.Execute(ctx, func() error {
		return retry.Retry(ctx, c.retry, func() error {
			return c.do(ctx, endpoint, out)
		})
	})

	c.logger.Debug("Upstream request finished",
		logger.String("source", c.name),
		logger.String("url", redact(endpoint)),
		logger.Duration("duration", time.Since(start)),
		logger.Bool("ok", err == nil),
	)
	return err
}

func (c *apiClient) do(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return httpErr
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err = dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

// redact hides the api-key query parameter.
func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has("api-key") {
		q.Set("api-key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// stripHTML returns the text content of an HTML fragment with whitespace
// collapsed.
func stripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
