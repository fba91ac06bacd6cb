// Package pipeline runs per-source extraction and resolution and merges the
// results of every source.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/elizabethzhu1/newsmapper/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxBatchSize caps the articles processed per source per run.
	MaxBatchSize = 50
	// DefaultConcurrency is the worker count when none is configured.
	DefaultConcurrency = 4
)

// Source supplies raw articles from one news provider.
type Source interface {
	// Name is the short identifier used in routes and metrics.
	Name() string
	// DisplayName is stored on every resolved item.
	DisplayName() string
	Fetch(ctx context.Context) ([]domain.RawArticle, error)
}

// Extractor picks at most one location candidate per article.
type Extractor interface {
	Extract(article *domain.RawArticle) (domain.LocationCandidate, bool)
}

// Resolver maps a candidate string to a coordinate.
type Resolver interface {
	Resolve(candidate string) resolver.Result
}

// Pipeline fetches one source and resolves its articles.
type Pipeline struct {
	source      Source
	extractor   Extractor
	resolver    Resolver
	concurrency int
	telemetry   *telemetry.Provider
	logger      logger.Logger
}

// Config holds the collaborators of a Pipeline. Telemetry is optional.
type Config struct {
	Source      Source
	Extractor   Extractor
	Resolver    Resolver
	Concurrency int
	Telemetry   *telemetry.Provider
	Logger      logger.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &Pipeline{
		source:      cfg.Source,
		extractor:   cfg.Extractor,
		resolver:    cfg.Resolver,
		concurrency: cfg.Concurrency,
		telemetry:   cfg.Telemetry,
		logger:      cfg.Logger.With(logger.String("source", cfg.Source.Name())),
	}
}

// Name returns the source name.
func (p *Pipeline) Name() string {
	return p.source.Name()
}

type job struct {
	index   int
	article *domain.RawArticle
}

type result struct {
	index int
	item  domain.ResolvedItem
	ok    bool
}

// Run fetches the source and returns its resolved items in feed order.
// Articles without a location are skipped; only a failed fetch is an error.
func (p *Pipeline) Run(ctx context.Context) ([]domain.ResolvedItem, error) {
	start := time.Now()
	if p.telemetry != nil {
		var span trace.Span
		ctx, span = p.telemetry.StartSpan(ctx, "pipeline.run", attribute.String("source", p.source.Name()))
		defer span.End()
	}

	articles, err := p.source.Fetch(ctx)
	if err != nil {
		p.record(ctx, start, true)
		return nil, fmt.Errorf("fetch %s: %w", p.source.Name(), err)
	}
	if p.telemetry != nil {
		p.telemetry.RecordFetch(ctx, p.source.Name(), len(articles))
	}

	if len(articles) > MaxBatchSize {
		p.logger.Info("Truncating article batch",
			logger.Int("received", len(articles)),
			logger.Int("limit", MaxBatchSize),
		)
		articles = articles[:MaxBatchSize]
	}

	items := p.process(ctx, articles)
	p.record(ctx, start, false)

	p.logger.Info("Source processed",
		logger.Int("articles", len(articles)),
		logger.Int("items", len(items)),
		logger.Duration("duration", time.Since(start)),
	)
	return items, nil
}

func (p *Pipeline) record(ctx context.Context, start time.Time, failed bool) {
	if p.telemetry != nil {
		p.telemetry.RecordPipeline(ctx, p.source.Name(), time.Since(start), failed)
	}
}

// process runs extraction and resolution on a worker pool and restores
// input order afterwards.
func (p *Pipeline) process(ctx context.Context, articles []domain.RawArticle) []domain.ResolvedItem {
	if len(articles) == 0 {
		return []domain.ResolvedItem{}
	}

	jobs := make(chan job, len(articles))
	results := make(chan result, len(articles))

	workers := min(p.concurrency, len(articles))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go p.worker(ctx, jobs, results, &wg)
	}

	for i := range articles {
		jobs <- job{index: i, article: &articles[i]}
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]result, 0, len(articles))
	for r := range results {
		if r.ok {
			collected = append(collected, r)
		}
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	items := make([]domain.ResolvedItem, len(collected))
	for i, r := range collected {
		items[i] = r.item
	}
	return items
}

func (p *Pipeline) worker(ctx context.Context, jobs <-chan job, results chan<- result, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		item, ok := p.processArticle(ctx, j.article)
		results <- result{index: j.index, item: item, ok: ok}
	}
}

func (p *Pipeline) processArticle(ctx context.Context, article *domain.RawArticle) (domain.ResolvedItem, bool) {
	cand, ok := p.extractor.Extract(article)
	if !ok {
		p.logger.Info("Skipping article with no location",
			logger.String("article_id", article.ID),
			logger.String("title", article.Title),
		)
		if p.telemetry != nil {
			p.telemetry.RecordSkip(ctx, p.source.Name())
		}
		return domain.ResolvedItem{}, false
	}

	res := p.resolver.Resolve(cand.Location)
	if p.telemetry != nil {
		p.telemetry.RecordExtraction(ctx, p.source.Name(), cand.Tier.String())
		p.telemetry.RecordResolution(ctx, res.Tier.String())
	}

	if !res.Coordinate.Valid() {
		p.logger.Error("Dropping article with invalid coordinate",
			logger.String("article_id", article.ID),
			logger.String("location", cand.Location),
			logger.Float64("latitude", res.Coordinate.Latitude),
			logger.Float64("longitude", res.Coordinate.Longitude),
		)
		if p.telemetry != nil {
			p.telemetry.RecordDrop(ctx, p.source.Name())
		}
		return domain.ResolvedItem{}, false
	}

	return domain.ResolvedItem{
		ID:                article.ID,
		Title:             article.Title,
		Abstract:          article.Abstract,
		URL:               article.URL,
		PublishedDate:     article.PublishedDate,
		SourceName:        p.source.DisplayName(),
		CanonicalLocation: cand.Location,
		Latitude:          res.Coordinate.Latitude,
		Longitude:         res.Coordinate.Longitude,
		IsCountryLevel:    data.IsCountryName(cand.Location),
		MatchedName:       res.MatchedName,
		MatchTier:         res.Tier,
	}, true
}
