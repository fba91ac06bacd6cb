package feeds

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

const (
	// GuardianName identifies the Guardian source.
	GuardianName = "guardian"
	// GuardianDisplayName is stored on Guardian items.
	GuardianDisplayName = "The Guardian"
	// DefaultGuardianBaseURL is the production API host.
	DefaultGuardianBaseURL = "https://content.guardianapis.com"

	guardianIDPrefix   = "guardian-"
	noDescription      = "No description available"
	guardianSearchPath = "/search"
)

// GuardianConfig configures the Content API client.
type GuardianConfig struct {
	BaseURL string `env:"GUARDIAN_BASE_URL" yaml:"base_url"`
	APIKey  string `env:"GUARDIAN_API_KEY"  yaml:"api_key"`
}

// GuardianClient searches the Guardian "world" section.
type GuardianClient struct {
	cfg    GuardianConfig
	api    *apiClient
	logger logger.Logger
}

// NewGuardianClient creates a Guardian client.
func NewGuardianClient(cfg GuardianConfig, opts Options, log logger.Logger) *GuardianClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGuardianBaseURL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &GuardianClient{cfg: cfg, api: newAPIClient(GuardianName, opts, log), logger: log}
}

func (c *GuardianClient) Name() string        { return GuardianName }
func (c *GuardianClient) DisplayName() string { return GuardianDisplayName }

type guardianResponse struct {
	Response struct {
		Status  string            `json:"status"`
		Total   int               `json:"total"`
		Results []guardianArticle `json:"results"`
	} `json:"response"`
}

type guardianArticle struct {
	ID                 string        `json:"id"`
	SectionID          string        `json:"sectionId"`
	SectionName        string        `json:"sectionName"`
	WebPublicationDate string        `json:"webPublicationDate"`
	WebTitle           string        `json:"webTitle"`
	WebURL             string        `json:"webUrl"`
	Tags               []guardianTag `json:"tags"`
	Fields             struct {
		Headline   string `json:"headline"`
		Standfirst string `json:"standfirst"`
		TrailText  string `json:"trailText"`
	} `json:"fields"`
}

type guardianTag struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	WebTitle string `json:"webTitle"`
}

func (c *GuardianClient) endpoint() string {
	q := url.Values{}
	q.Set("section", "world")
	q.Set("show-fields", "headline,standfirst,trailText")
	q.Set("show-tags", "keyword")
	q.Set("api-key", c.cfg.APIKey)
	return strings.TrimRight(c.cfg.BaseURL, "/") + guardianSearchPath + "?" + q.Encode()
}

// Fetch returns the latest world-section articles. Without an API key the
// source is disabled and returns nothing.
func (c *GuardianClient) Fetch(ctx context.Context) ([]domain.RawArticle, error) {
	if c.cfg.APIKey == "" {
		c.logger.Warn("Source disabled", logger.String("source", GuardianName), logger.Error(ErrMissingAPIKey))
		return nil, nil
	}

	var resp guardianResponse
	if err := c.api.getJSON(ctx, c.endpoint(), &resp); err != nil {
		return nil, fmt.Errorf("search world section: %w", err)
	}

	c.logger.Info("Received articles",
		logger.String("source", GuardianName),
		logger.Int("count", len(resp.Response.Results)),
	)

	articles := make([]domain.RawArticle, 0, len(resp.Response.Results))
	for _, a := range resp.Response.Results {
		tags := make([]domain.Tag, 0, len(a.Tags))
		for _, t := range a.Tags {
			tags = append(tags, domain.Tag{Type: t.Type, Title: t.WebTitle})
		}
		articles = append(articles, domain.RawArticle{
			ID:            guardianIDPrefix + a.ID,
			Title:         a.WebTitle,
			Abstract:      guardianAbstract(a),
			URL:           a.WebURL,
			PublishedDate: a.WebPublicationDate,
			Section:       a.SectionName,
			Tags:          tags,
			Source:        GuardianName,
		})
	}
	return articles, nil
}

func guardianAbstract(a guardianArticle) string {
	for _, s := range []string{a.Fields.TrailText, a.Fields.Standfirst} {
		if text := stripHTML(s); text != "" {
			return text
		}
	}
	return noDescription
}
