package data

import (
	"errors"
	"fmt"

	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

var (
	continentIndex = indexPlaces(ContinentFallbacks)
	countryNameSet = indexNames(CountryNames)
)

func indexPlaces(places []Place) map[string]domain.Coordinate {
	m := make(map[string]domain.Coordinate, len(places))
	for _, p := range places {
		if _, dup := m[p.Name]; !dup {
			m[p.Name] = p.Coordinate
		}
	}
	return m
}

func indexNames(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// IsCountryName reports whether name is in CountryNames (exact match).
func IsCountryName(name string) bool {
	_, ok := countryNameSet[name]
	return ok
}

// ValidateTables checks every table for empty or duplicate names and
// out-of-range coordinates. serve runs it before building the resolver.
func ValidateTables() error {
	var errs []error
	for _, t := range []struct {
		name   string
		places []Place
	}{
		{"gazetteer", Gazetteer},
		{"continent fallbacks", ContinentFallbacks},
		{"country centers", CountryCenters},
	} {
		errs = append(errs, validatePlaces(t.name, t.places)...)
	}

	for _, p := range ContinentPatterns {
		if _, ok := continentIndex[p.Continent]; !ok {
			errs = append(errs, fmt.Errorf("continent pattern: %q has no fallback centroid", p.Continent))
		}
	}
	if _, ok := continentIndex[DefaultContinent]; !ok {
		errs = append(errs, fmt.Errorf("default continent %q has no fallback centroid", DefaultContinent))
	}

	return errors.Join(errs...)
}

func validatePlaces(table string, places []Place) []error {
	var errs []error
	seen := make(map[string]struct{}, len(places))
	for i, p := range places {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: empty name", table, i))
			continue
		}
		if _, dup := seen[p.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate name %q", table, p.Name))
		}
		seen[p.Name] = struct{}{}
		if !p.Coordinate.Valid() {
			errs = append(errs, fmt.Errorf("%s: %q has invalid coordinate %s", table, p.Name, p.Coordinate))
		}
	}
	return errs
}
