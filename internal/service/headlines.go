// Package service coordinates headline fetching with the cache and the
// Elasticsearch archive.
package service

import (
	"context"
	"fmt"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/cache"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/pipeline"
	"github.com/elizabethzhu1/newsmapper/internal/telemetry"
)

// Cache result labels.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Fetcher produces resolved headlines; *pipeline.Aggregator satisfies it.
type Fetcher interface {
	Sources() []string
	Run(ctx context.Context) ([]domain.ResolvedItem, error)
	RunSource(ctx context.Context, name string) ([]domain.ResolvedItem, error)
}

// Cache stores headline lists by key; *cache.HeadlineCache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.ResolvedItem, bool, error)
	Set(ctx context.Context, key string, items []domain.ResolvedItem) error
	Invalidate(ctx context.Context, key string) error
}

// Archive persists resolved headlines; *storage.Indexer satisfies it.
type Archive interface {
	IndexItems(ctx context.Context, items []domain.ResolvedItem) error
}

// HeadlineService serves headline lists, reading through the cache when one
// is configured. Cache and archive failures are logged and never surface.
type HeadlineService struct {
	fetcher   Fetcher
	cache     Cache
	archive   Archive
	telemetry *telemetry.Provider
	logger    logger.Logger
}

// Option configures a HeadlineService.
type Option func(*HeadlineService)

// WithCache enables read-through caching.
func WithCache(c Cache) Option {
	return func(s *HeadlineService) { s.cache = c }
}

// WithArchive indexes every freshly fetched list.
func WithArchive(a Archive) Option {
	return func(s *HeadlineService) { s.archive = a }
}

// WithTelemetry records cache metrics.
func WithTelemetry(tp *telemetry.Provider) Option {
	return func(s *HeadlineService) { s.telemetry = tp }
}

// NewHeadlineService creates a HeadlineService.
func NewHeadlineService(fetcher Fetcher, log logger.Logger, opts ...Option) *HeadlineService {
	if log == nil {
		log = logger.NewNop()
	}
	s := &HeadlineService{fetcher: fetcher, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources returns the configured source names.
func (s *HeadlineService) Sources() []string {
	return s.fetcher.Sources()
}

// Headlines returns the items for source, or for every source when source
// is empty. A name no source answers to fails with pipeline.ErrUnknownSource
// before the cache is consulted.
func (s *HeadlineService) Headlines(ctx context.Context, source string) ([]domain.ResolvedItem, error) {
	if source != "" && !s.known(source) {
		return nil, fmt.Errorf("fetch headlines: %w: %s", pipeline.ErrUnknownSource, source)
	}

	key := cacheKey(source)
	if items, ok := s.fromCache(ctx, key); ok {
		return items, nil
	}

	items, err := s.fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, items)
	return items, nil
}

// Refresh fetches every source, bypassing the cache, stores the result
// under the aggregate key and drops stale per-source entries.
func (s *HeadlineService) Refresh(ctx context.Context) ([]domain.ResolvedItem, error) {
	items, err := s.fetch(ctx, "")
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.AllSourcesKey, items)

	if s.cache != nil {
		for _, name := range s.fetcher.Sources() {
			key := cache.SourceKey(name)
			if invErr := s.cache.Invalidate(ctx, key); invErr != nil {
				s.logger.Warn("Cache invalidation failed",
					logger.String("key", key),
					logger.Error(invErr),
				)
			}
		}
	}

	s.logger.Info("Headlines refreshed", logger.Int("items", len(items)))
	return items, nil
}

func (s *HeadlineService) known(source string) bool {
	for _, name := range s.fetcher.Sources() {
		if name == source {
			return true
		}
	}
	return false
}

func cacheKey(source string) string {
	if source == "" {
		return cache.AllSourcesKey
	}
	return cache.SourceKey(source)
}

func (s *HeadlineService) fetch(ctx context.Context, source string) ([]domain.ResolvedItem, error) {
	var (
		items []domain.ResolvedItem
		err   error
	)
	if source == "" {
		items, err = s.fetcher.Run(ctx)
	} else {
		items, err = s.fetcher.RunSource(ctx, source)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch headlines: %w", err)
	}

	if s.archive != nil && len(items) > 0 {
		if archiveErr := s.archive.IndexItems(ctx, items); archiveErr != nil {
			s.logger.Warn("Failed to archive headlines", logger.Error(archiveErr))
		}
	}
	return items, nil
}

func (s *HeadlineService) fromCache(ctx context.Context, key string) ([]domain.ResolvedItem, bool) {
	if s.cache == nil {
		return nil, false
	}

	items, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("Cache read failed", logger.String("key", key), logger.Error(err))
		s.recordCache(ctx, cacheError)
		return nil, false
	case !ok:
		s.recordCache(ctx, cacheMiss)
		return nil, false
	default:
		s.recordCache(ctx, cacheHit)
		return items, true
	}
}

func (s *HeadlineService) store(ctx context.Context, key string, items []domain.ResolvedItem) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, items); err != nil {
		s.logger.Warn("Cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func (s *HeadlineService) recordCache(ctx context.Context, result string) {
	if s.telemetry != nil {
		s.telemetry.RecordCache(ctx, result)
	}
}
