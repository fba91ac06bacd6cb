package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

const (
	// NYTimesName identifies the New York Times source.
	NYTimesName = "nytimes"
	// NYTimesDisplayName is stored on New York Times items.
	NYTimesDisplayName = "The New York Times"
	// DefaultNYTimesBaseURL is the production API host.
	DefaultNYTimesBaseURL = "https://api.nytimes.com"

	nytTopStoriesPath = "/svc/topstories/v2/world.json"
)

// NYTimesConfig configures the Top Stories client.
type NYTimesConfig struct {
	BaseURL string `env:"NYTIMES_BASE_URL" yaml:"base_url"`
	APIKey  string `env:"NYTIMES_API_KEY"  yaml:"api_key"`
}

// NYTimesClient fetches the Top Stories "world" feed.
type NYTimesClient struct {
	cfg    NYTimesConfig
	api    *apiClient
	logger logger.Logger
}

// NewNYTimesClient creates a New York Times client.
func NewNYTimesClient(cfg NYTimesConfig, opts Options, log logger.Logger) *NYTimesClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNYTimesBaseURL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &NYTimesClient{cfg: cfg, api: newAPIClient(NYTimesName, opts, log), logger: log}
}

func (c *NYTimesClient) Name() string        { return NYTimesName }
func (c *NYTimesClient) DisplayName() string { return NYTimesDisplayName }

type nytResponse struct {
	Status  string       `json:"status"`
	Results []nytArticle `json:"results"`
}

type nytArticle struct {
	URI           string    `json:"uri"`
	Title         string    `json:"title"`
	Abstract      string    `json:"abstract"`
	URL           string    `json:"url"`
	PublishedDate string    `json:"published_date"`
	Section       string    `json:"section"`
	GeoFacet      facetList `json:"geo_facet"`
}

// facetList accepts both an array and the empty string the API sends when an
// article has no facets.
type facetList []string

func (f *facetList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = nil
		} else {
			*f = facetList{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*f = list
	return nil
}

func (c *NYTimesClient) endpoint() string {
	q := url.Values{}
	q.Set("api-key", c.cfg.APIKey)
	return strings.TrimRight(c.cfg.BaseURL, "/") + nytTopStoriesPath + "?" + q.Encode()
}

// Fetch returns the world top stories that carry geo facets. Without an API
// key the source is disabled and returns nothing.
func (c *NYTimesClient) Fetch(ctx context.Context) ([]domain.RawArticle, error) {
	if c.cfg.APIKey == "" {
		c.logger.Warn("Source disabled", logger.String("source", NYTimesName), logger.Error(ErrMissingAPIKey))
		return nil, nil
	}

	var resp nytResponse
	if err := c.api.getJSON(ctx, c.endpoint(), &resp); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	c.logger.Info("Received articles",
		logger.String("source", NYTimesName),
		logger.Int("count", len(resp.Results)),
	)

	articles := make([]domain.RawArticle, 0, len(resp.Results))
	for _, a := range resp.Results {
		if len(a.GeoFacet) == 0 {
			continue
		}
		articles = append(articles, domain.RawArticle{
			ID:            a.URI,
			Title:         a.Title,
			Abstract:      stripHTML(a.Abstract),
			URL:           a.URL,
			PublishedDate: a.PublishedDate,
			Section:       a.Section,
			GeoFacets:     a.GeoFacet,
			Source:        NYTimesName,
		})
	}
	return articles, nil
}
