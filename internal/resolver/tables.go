package resolver

import (
	"github.com/elizabethzhu1/newsmapper/internal/data"
)

// Tables is the immutable reference data a Resolver resolves against.
type Tables struct {
	// Gazetteer is searched by every matching tier in slice order.
	Gazetteer []data.Place
	// Continents maps continent names to centroids.
	Continents []data.Place
	// ContinentRules assign a continent by case-insensitive pattern, first
	// match wins.
	ContinentRules []data.ContinentPattern
	// DefaultContinent is used when no rule matches.
	DefaultContinent string
	// CountryCenters back ResolveCountryCenter.
	CountryCenters []data.Place
}

// DefaultTables returns the built-in reference tables.
func DefaultTables() Tables {
	return Tables{
		Gazetteer:        data.Gazetteer,
		Continents:       data.ContinentFallbacks,
		ContinentRules:   data.ContinentPatterns,
		DefaultContinent: data.DefaultContinent,
		CountryCenters:   data.CountryCenters,
	}
}
