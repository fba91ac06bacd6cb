package extract

import (
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/alias"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

// GuardianWorldSection is the only Guardian section carrying located stories.
const GuardianWorldSection = "World news"

// Chain tries its strategies in order and returns the first candidate.
type Chain struct {
	name       string
	section    string
	strategies []Strategy
	logger     logger.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithSectionFilter rejects articles outside section before any strategy runs.
func WithSectionFilter(section string) Option {
	return func(c *Chain) { c.section = section }
}

// WithLogger sets the chain logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Chain) { c.logger = log }
}

// NewChain creates a chain named name over strategies.
func NewChain(name string, strategies []Strategy, opts ...Option) *Chain {
	c := &Chain{
		name:       name,
		strategies: strategies,
		logger:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForGuardian builds the Guardian chain: world-section filter, then tag,
// title and city strategies.
func ForGuardian(norm *alias.Normalizer, log logger.Logger) *Chain {
	return NewChain("guardian",
		[]Strategy{
			NewTagStrategy(norm),
			NewTitleStrategy(norm),
			NewCityStrategy(data.CityCountries),
		},
		WithSectionFilter(GuardianWorldSection),
		WithLogger(log),
	)
}

// ForNYTimes builds the New York Times chain over geo facets.
func ForNYTimes(norm *alias.Normalizer, log logger.Logger) *Chain {
	return NewChain("nytimes",
		[]Strategy{NewGeoFacetStrategy(norm)},
		WithLogger(log),
	)
}

func (c *Chain) Name() string { return c.name }

// Extract returns the first candidate produced by the chain. A miss is
// reported with false and logged at debug.
func (c *Chain) Extract(article *domain.RawArticle) (domain.LocationCandidate, bool) {
	if article == nil {
		return domain.LocationCandidate{}, false
	}

	if c.section != "" && article.Section != c.section {
		c.logger.Debug("Article outside section",
			logger.String("chain", c.name),
			logger.String("article_id", article.ID),
			logger.String("section", article.Section),
		)
		return domain.LocationCandidate{}, false
	}

	for _, s := range c.strategies {
		if cand, ok := s.Extract(article); ok {
			c.logger.Debug("Location extracted",
				logger.String("chain", c.name),
				logger.String("strategy", s.Name()),
				logger.String("article_id", article.ID),
				logger.String("location", cand.Location),
			)
			return cand, true
		}
	}

	c.logger.Debug("No location found",
		logger.String("chain", c.name),
		logger.String("article_id", article.ID),
		logger.String("title", article.Title),
	)
	return domain.LocationCandidate{}, false
}
