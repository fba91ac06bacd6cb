// Package layout groups resolved items into map markers: one cluster per
// location at low zoom, individual points with radial offsets otherwise.
package layout

import (
	"fmt"
	"math"

	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

const (
	// AggregateZoomThreshold is the zoom below which clusters are shown.
	AggregateZoomThreshold = 2.5
	// MinZoom and MaxZoom bound the client zoom range.
	MinZoom = 1.0
	MaxZoom = 4.0
	// BaseOffset is the offset radius in degrees at zoom 1.
	BaseOffset = 0.7
	// CountryOffsetScale widens the circle for country-level groups.
	CountryOffsetScale = 1.5
)

// CountryCenterResolver supplies country centroids.
type CountryCenterResolver interface {
	ResolveCountryCenter(country string) domain.Coordinate
}

// Options controls one layout pass.
type Options struct {
	// Aggregate selects one cluster per location instead of offset points.
	Aggregate bool
	// ZoomFactor scales offsets; values below 1 and non-finite values are
	// treated as 1.
	ZoomFactor float64
}

// OptionsForZoom derives options from a zoom level.
func OptionsForZoom(zoom float64) Options {
	return Options{Aggregate: AggregateForZoom(zoom), ZoomFactor: zoom}
}

// AggregateForZoom reports whether zoom is low enough to show clusters.
func AggregateForZoom(zoom float64) bool {
	return zoom < AggregateZoomThreshold
}

// ClampZoom limits zoom to [MinZoom, MaxZoom].
func ClampZoom(zoom float64) float64 {
	if math.IsNaN(zoom) || zoom < MinZoom {
		return MinZoom
	}
	return math.Min(zoom, MaxZoom)
}

// Engine lays out items. Country centroids are computed once at
// construction; the engine is immutable and safe for concurrent use.
type Engine struct {
	countries map[string]domain.Coordinate
}

// New builds an Engine, precomputing the centroid of every name in
// countryNames.
func New(res CountryCenterResolver, countryNames []string) *Engine {
	countries := make(map[string]domain.Coordinate, len(countryNames))
	for _, name := range countryNames {
		countries[name] = res.ResolveCountryCenter(name)
	}
	return &Engine{countries: countries}
}

// IsCountryLevel reports whether location is a known country name.
func (e *Engine) IsCountryLevel(location string) bool {
	_, ok := e.countries[location]
	return ok
}

// Layout returns the markers for items. items is not modified. Output
// follows first-seen group order, members keep input order.
func (e *Engine) Layout(items []domain.ResolvedItem, opts Options) []domain.MarkerGroup {
	if len(items) == 0 {
		return []domain.MarkerGroup{}
	}

	anchored := e.anchor(items)
	if opts.Aggregate {
		return clusters(anchored)
	}
	return offsetPoints(anchored, opts.ZoomFactor)
}

// anchor copies items, moving country-level stories to their country centroid.
func (e *Engine) anchor(items []domain.ResolvedItem) []domain.ResolvedItem {
	out := make([]domain.ResolvedItem, len(items))
	for i, item := range items {
		if center, ok := e.countries[item.CanonicalLocation]; ok {
			item.IsCountryLevel = true
			item.Latitude = center.Latitude
			item.Longitude = center.Longitude
		}
		out[i] = item
	}
	return out
}

// orderedGroups partitions items by key, remembering first-seen key order.
type orderedGroups struct {
	keys   []string
	groups map[string][]domain.ResolvedItem
}

func groupBy(items []domain.ResolvedItem, key func(domain.ResolvedItem) string) orderedGroups {
	g := orderedGroups{groups: make(map[string][]domain.ResolvedItem)}
	for _, item := range items {
		k := key(item)
		if _, seen := g.groups[k]; !seen {
			g.keys = append(g.keys, k)
		}
		g.groups[k] = append(g.groups[k], item)
	}
	return g
}

func clusters(items []domain.ResolvedItem) []domain.MarkerGroup {
	g := groupBy(items, func(it domain.ResolvedItem) string { return it.CanonicalLocation })

	out := make([]domain.MarkerGroup, 0, len(g.keys))
	for _, k := range g.keys {
		members := g.groups[k]
		first := members[0]
		out = append(out, domain.NewClusterMarker(domain.Cluster{
			Location:       k,
			Latitude:       first.Latitude,
			Longitude:      first.Longitude,
			Count:          len(members),
			IsCountryLevel: first.IsCountryLevel,
			Sources:        distinctSources(members),
			Members:        members,
		}))
	}
	return out
}

func distinctSources(members []domain.ResolvedItem) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range members {
		if m.SourceName == "" {
			continue
		}
		if _, ok := seen[m.SourceName]; ok {
			continue
		}
		seen[m.SourceName] = struct{}{}
		out = append(out, m.SourceName)
	}
	return out
}

// CoordinateKey is the collision key: the coordinate rounded to 3 decimals.
func CoordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lon)
}

// OffsetRadius is the circle radius for a collision group.
func OffsetRadius(zoom float64, countryLevel bool) float64 {
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom < 1 {
		zoom = 1
	}
	r := BaseOffset / zoom
	if countryLevel {
		r *= CountryOffsetScale
	}
	return r
}

func offsetPoints(items []domain.ResolvedItem, zoom float64) []domain.MarkerGroup {
	g := groupBy(items, func(it domain.ResolvedItem) string {
		return CoordinateKey(it.Latitude, it.Longitude)
	})

	out := make([]domain.MarkerGroup, 0, len(items))
	for _, k := range g.keys {
		group := g.groups[k]
		if len(group) == 1 {
			out = append(out, domain.NewPointMarker(domain.OffsetPoint{Item: group[0]}))
			continue
		}

		radius := OffsetRadius(zoom, group[0].IsCountryLevel)
		n := float64(len(group))
		for i, item := range group {
			angle := 2 * math.Pi * float64(i) / n
			out = append(out, domain.NewPointMarker(domain.OffsetPoint{
				Item:      item,
				OffsetLat: math.Sin(angle) * radius,
				OffsetLon: math.Cos(angle) * radius,
			}))
		}
	}
	return out
}

// FilterSources keeps items whose source is enabled. A nil or empty set
// keeps everything.
func FilterSources(items []domain.ResolvedItem, enabled []string) []domain.ResolvedItem {
	if len(enabled) == 0 {
		return items
	}
	allow := make(map[string]struct{}, len(enabled))
	for _, s := range enabled {
		allow[s] = struct{}{}
	}
	out := make([]domain.ResolvedItem, 0, len(items))
	for _, item := range items {
		if _, ok := allow[item.SourceName]; ok {
			out = append(out, item)
		}
	}
	return out
}
