// Package api exposes headlines, layout and resolution over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/layout"
	"github.com/elizabethzhu1/newsmapper/internal/pipeline"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/elizabethzhu1/newsmapper/internal/telemetry"
	"github.com/gin-gonic/gin"
)

// errFetchHeadlines is the client-facing message for any fetch failure.
const errFetchHeadlines = "Failed to fetch headlines"

// HeadlineService supplies headline lists; *service.HeadlineService
// satisfies it.
type HeadlineService interface {
	Headlines(ctx context.Context, source string) ([]domain.ResolvedItem, error)
}

// LocationResolver resolves one candidate; *resolver.Resolver satisfies it.
type LocationResolver interface {
	Resolve(candidate string) resolver.Result
}

// Handler handles HTTP requests for the newsmapper API.
type Handler struct {
	headlines   HeadlineService
	engine      *layout.Engine
	resolver    LocationResolver
	telemetry   *telemetry.Provider
	defaultZoom float64
	logger      logger.Logger
}

// HandlerConfig holds Handler dependencies. Telemetry is optional.
type HandlerConfig struct {
	Headlines   HeadlineService
	Engine      *layout.Engine
	Resolver    LocationResolver
	Telemetry   *telemetry.Provider
	DefaultZoom float64
	Logger      logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	zoom := cfg.DefaultZoom
	if zoom == 0 {
		zoom = layout.MinZoom
	}
	return &Handler{
		headlines:   cfg.Headlines,
		engine:      cfg.Engine,
		resolver:    cfg.Resolver,
		telemetry:   cfg.Telemetry,
		defaultZoom: zoom,
		logger:      log,
	}
}

// ListHeadlines handles GET /api/v1/headlines
func (h *Handler) ListHeadlines(c *gin.Context) {
	items, err := h.headlines.Headlines(c.Request.Context(), "")
	if err != nil {
		h.logger.Error("Failed to fetch headlines", logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errFetchHeadlines})
		return
	}
	c.JSON(http.StatusOK, HeadlinesResponse{NewsItems: nonNil(items)})
}

// SourceHeadlines handles GET /api/v1/headlines/:source
func (h *Handler) SourceHeadlines(c *gin.Context) {
	source := c.Param("source")
	items, err := h.headlines.Headlines(c.Request.Context(), source)
	if errors.Is(err, pipeline.ErrUnknownSource) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown source: " + source})
		return
	}
	if err != nil {
		h.logger.Error("Failed to fetch headlines",
			logger.String("source", source),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errFetchHeadlines})
		return
	}
	c.JSON(http.StatusOK, HeadlinesResponse{NewsItems: nonNil(items)})
}

// Layout handles GET /api/v1/layout?zoom=1.5&sources=The Guardian
func (h *Handler) Layout(c *gin.Context) {
	zoom := h.defaultZoom
	if raw := c.Query("zoom"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "zoom must be a number"})
			return
		}
		zoom = parsed
	}
	zoom = layout.ClampZoom(zoom)

	items, err := h.headlines.Headlines(c.Request.Context(), "")
	if err != nil {
		h.logger.Error("Failed to fetch headlines for layout", logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errFetchHeadlines})
		return
	}

	items = layout.FilterSources(items, parseSources(c.Query("sources")))
	opts := layout.OptionsForZoom(zoom)
	markers := h.engine.Layout(items, opts)

	if h.telemetry != nil {
		h.telemetry.RecordLayout(c.Request.Context(), opts.Aggregate, len(markers))
	}

	c.JSON(http.StatusOK, LayoutResponse{
		Aggregate: opts.Aggregate,
		Zoom:      zoom,
		Markers:   markers,
	})
}

// Resolve handles GET /api/v1/resolve?location=U.S.
func (h *Handler) Resolve(c *gin.Context) {
	location, ok := c.GetQuery("location")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "location query parameter is required"})
		return
	}

	res := h.resolver.Resolve(location)
	c.JSON(http.StatusOK, ResolveResponse{
		Location:    location,
		MatchedName: res.MatchedName,
		MatchTier:   res.Tier,
		Latitude:    res.Coordinate.Latitude,
		Longitude:   res.Coordinate.Longitude,
	})
}

// parseSources splits a comma-separated list of source display names.
func parseSources(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonNil(items []domain.ResolvedItem) []domain.ResolvedItem {
	if items == nil {
		return []domain.ResolvedItem{}
	}
	return items
}
