package cmd

import (
	"context"
	"fmt"
	"time"

	infraelasticsearch "github.com/elizabethzhu1/newsmapper/infrastructure/elasticsearch"
	infragin "github.com/elizabethzhu1/newsmapper/infrastructure/gin"
	infrahttp "github.com/elizabethzhu1/newsmapper/infrastructure/http"
	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/infrastructure/metrics"
	infraredis "github.com/elizabethzhu1/newsmapper/infrastructure/redis"
	"github.com/elizabethzhu1/newsmapper/internal/alias"
	"github.com/elizabethzhu1/newsmapper/internal/api"
	"github.com/elizabethzhu1/newsmapper/internal/cache"
	"github.com/elizabethzhu1/newsmapper/internal/config"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/extract"
	"github.com/elizabethzhu1/newsmapper/internal/feeds"
	"github.com/elizabethzhu1/newsmapper/internal/layout"
	"github.com/elizabethzhu1/newsmapper/internal/pipeline"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/elizabethzhu1/newsmapper/internal/scheduler"
	"github.com/elizabethzhu1/newsmapper/internal/service"
	"github.com/elizabethzhu1/newsmapper/internal/storage"
	"github.com/elizabethzhu1/newsmapper/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const healthCheckTimeout = 2 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the scheduled headline refresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := data.ValidateTables(); err != nil {
		return fmt.Errorf("validate location tables: %w", err)
	}

	tp := telemetry.NewProvider()
	res, err := resolver.New(resolver.DefaultTables(), alias.Default(), log)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}

	agg := pipeline.NewAggregator(log, buildPipelines(cfg, res, tp, log)...)
	checks := map[string]infragin.HealthChecker{}
	opts := []service.Option{service.WithTelemetry(tp)}

	if cfg.Redis.Enabled {
		client, redisErr := infraredis.NewClient(cfg.Redis.Config)
		if redisErr != nil {
			return fmt.Errorf("connect redis: %w", redisErr)
		}
		defer func() { _ = client.Close() }()

		headlineCache := cache.New(client, cfg.Redis.Config)
		opts = append(opts, service.WithCache(headlineCache))
		checks["redis"] = pingCheck(headlineCache.Ping, true)
		log.Info("Headline cache enabled", logger.String("address", cfg.Redis.Address))
	}

	if cfg.Elasticsearch.Enabled {
		client, esErr := infraelasticsearch.NewClient(ctx, cfg.Elasticsearch.Config, log)
		if esErr != nil {
			return fmt.Errorf("connect elasticsearch: %w", esErr)
		}

		indexer := storage.NewIndexer(client, cfg.Elasticsearch.Index, log)
		if indexErr := indexer.EnsureIndex(ctx); indexErr != nil {
			return fmt.Errorf("ensure index: %w", indexErr)
		}
		opts = append(opts, service.WithArchive(indexer))
		checks["elasticsearch"] = pingCheck(indexer.Ping, true)
		log.Info("Headline archive enabled", logger.String("index", cfg.Elasticsearch.Index))
	}

	headlines := service.NewHeadlineService(agg, log, opts...)

	refresh, err := scheduler.New(cfg.Layout.RefreshSchedule, headlines, log)
	if err != nil {
		return err
	}
	if err = refresh.Start(ctx, cfg.Redis.Enabled); err != nil {
		return fmt.Errorf("start refresh scheduler: %w", err)
	}
	defer refresh.Stop()

	handler := api.NewHandler(api.HandlerConfig{
		Headlines:   headlines,
		Engine:      layout.New(res, data.CountryNames),
		Resolver:    res,
		Telemetry:   tp,
		DefaultZoom: cfg.Layout.DefaultZoom,
		Logger:      log,
	})

	server := infragin.NewServer(&infragin.Config{
		Port:           cfg.Service.Port,
		Debug:          cfg.Service.Debug,
		AllowedOrigins: cfg.Service.AllowedOrigins,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: Version,
		Checks:         checks,
	}, log, func(router *gin.Engine) {
		router.Use(metrics.NewHTTPMetrics(tp.Registry(), "newsmapper").Middleware())
		api.SetupRoutes(router, handler, tp.Handler())
	})

	log.Info("Starting newsmapper",
		logger.Int("port", cfg.Service.Port),
		logger.Strings("sources", agg.Sources()),
	)
	return server.RunWithGracefulShutdown(ctx)
}

// buildPipelines wires one pipeline per upstream feed. Feed clients share
// the HTTP client; each has its own limiter and breaker. Extraction uses the
// source's own alias table; the resolver uses the merged one.
func buildPipelines(
	cfg *config.Config,
	res *resolver.Resolver,
	tp *telemetry.Provider,
	log logger.Logger,
) []*pipeline.Pipeline {
	feedOpts := feeds.Options{
		HTTPClient:        infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.Feeds.Timeout}),
		RequestsPerSecond: cfg.Feeds.RequestsPerSecond,
		Burst:             cfg.Feeds.Burst,
	}

	newPipeline := func(src pipeline.Source, ext pipeline.Extractor) *pipeline.Pipeline {
		return pipeline.New(pipeline.Config{
			Source:      src,
			Extractor:   ext,
			Resolver:    res,
			Concurrency: cfg.Service.Concurrency,
			Telemetry:   tp,
			Logger:      log,
		})
	}

	return []*pipeline.Pipeline{
		newPipeline(
			feeds.NewNYTimesClient(cfg.Feeds.NYTimes, feedOpts, log),
			extract.ForNYTimes(alias.NYTimes(), log),
		),
		newPipeline(
			feeds.NewGuardianClient(cfg.Feeds.Guardian, feedOpts, log),
			extract.ForGuardian(alias.Guardian(), log),
		),
	}
}

func pingCheck(ping func(context.Context) error, optional bool) infragin.HealthChecker {
	return infragin.PingChecker(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()
		return ping(ctx)
	}, optional)
}
