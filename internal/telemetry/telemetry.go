// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for newsmapper.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "newsmapper"
	namespace   = "newsmapper"
)

// Metrics holds all newsmapper Prometheus metrics.
type Metrics struct {
	// Pipeline metrics
	ArticlesFetched  *prometheus.CounterVec
	ArticlesSkipped  *prometheus.CounterVec
	ArticlesDropped  *prometheus.CounterVec
	Extractions      *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
	SourceFailures   *prometheus.CounterVec

	// Resolver metrics
	LocationsResolved *prometheus.CounterVec

	// Layout metrics
	LayoutMarkers *prometheus.HistogramVec

	// Cache metrics
	CacheRequests *prometheus.CounterVec
}

// Provider wraps telemetry providers. Each Provider owns its registry.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes telemetry with Prometheus metrics on a fresh
// registry, plus Go runtime and process collectors.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		registry: reg,
	}
}

// Registry returns the provider's Prometheus registry.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}
	initPipelineMetrics(f, m)
	initResolverMetrics(f, m)
	initLayoutMetrics(f, m)
	initCacheMetrics(f, m)
	return m
}

func initPipelineMetrics(f promauto.Factory, m *Metrics) {
	m.ArticlesFetched = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_fetched_total",
		Help:      "Articles received from a news source",
	}, []string{"source"})

	m.ArticlesSkipped = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_skipped_total",
		Help:      "Articles with no extractable location",
	}, []string{"source"})

	m.ArticlesDropped = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_dropped_total",
		Help:      "Articles dropped because their resolved coordinate was invalid",
	}, []string{"source"})

	m.Extractions = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_total",
		Help:      "Location candidates extracted, by confidence tier",
	}, []string{"source", "tier"})

	m.PipelineDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Time to fetch, extract and resolve one source",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"source"})

	m.SourceFailures = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_failures_total",
		Help:      "Source fetches that failed",
	}, []string{"source"})
}

func initResolverMetrics(f promauto.Factory, m *Metrics) {
	m.LocationsResolved = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locations_resolved_total",
		Help:      "Resolved locations by match tier",
	}, []string{"tier"})
}

func initLayoutMetrics(f promauto.Factory, m *Metrics) {
	m.LayoutMarkers = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_markers",
		Help:      "Markers produced per layout pass",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
	}, []string{"mode"})
}

func initCacheMetrics(f promauto.Factory, m *Metrics) {
	m.CacheRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Headline cache lookups by result (hit, miss, error)",
	}, []string{"result"})
}

// RecordFetch records the number of articles a source returned.
func (p *Provider) RecordFetch(ctx context.Context, source string, count int) {
	p.Metrics.ArticlesFetched.WithLabelValues(source).Add(float64(count))
}

// RecordSkip records an article without a location.
func (p *Provider) RecordSkip(ctx context.Context, source string) {
	p.Metrics.ArticlesSkipped.WithLabelValues(source).Inc()
}

// RecordDrop records an article dropped for an invalid coordinate.
func (p *Provider) RecordDrop(ctx context.Context, source string) {
	p.Metrics.ArticlesDropped.WithLabelValues(source).Inc()
}

// RecordExtraction records a candidate extracted at tier.
func (p *Provider) RecordExtraction(ctx context.Context, source, tier string) {
	p.Metrics.Extractions.WithLabelValues(source, tier).Inc()
}

// RecordResolution records a resolution at tier.
func (p *Provider) RecordResolution(ctx context.Context, tier string) {
	p.Metrics.LocationsResolved.WithLabelValues(tier).Inc()
}

// RecordPipeline records a completed pipeline run.
func (p *Provider) RecordPipeline(ctx context.Context, source string, duration time.Duration, failed bool) {
	p.Metrics.PipelineDuration.WithLabelValues(source).Observe(duration.Seconds())
	if failed {
		p.Metrics.SourceFailures.WithLabelValues(source).Inc()
	}
}

// RecordLayout records the marker count of one layout pass.
func (p *Provider) RecordLayout(ctx context.Context, aggregate bool, markers int) {
	mode := "detail"
	if aggregate {
		mode = "aggregate"
	}
	p.Metrics.LayoutMarkers.WithLabelValues(mode).Observe(float64(markers))
}

// RecordCache records a cache lookup result.
func (p *Provider) RecordCache(ctx context.Context, result string) {
	p.Metrics.CacheRequests.WithLabelValues(result).Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
