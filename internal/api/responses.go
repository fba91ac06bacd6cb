package api

import "github.com/elizabethzhu1/newsmapper/internal/domain"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HeadlinesResponse lists resolved headlines.
type HeadlinesResponse struct {
	NewsItems []domain.ResolvedItem `json:"newsItems"`
}

// LayoutResponse carries the markers for one zoom level.
type LayoutResponse struct {
	Aggregate bool                 `json:"aggregate"`
	Zoom      float64              `json:"zoom"`
	Markers   []domain.MarkerGroup `json:"markers"`
}

// ResolveResponse describes how a location string was resolved.
type ResolveResponse struct {
	Location    string           `json:"location"`
	MatchedName string           `json:"matchedName"`
	MatchTier   domain.MatchTier `json:"matchTier"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
}
