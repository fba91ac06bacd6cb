// Package extract derives at most one location candidate per article.
package extract

import (
	"strings"

	"github.com/elizabethzhu1/newsmapper/internal/alias"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

// Strategy produces at most one LocationCandidate from an article.
type Strategy interface {
	Name() string
	Extract(article *domain.RawArticle) (domain.LocationCandidate, bool)
}

func candidate(location string, tier domain.ConfidenceTier) (domain.LocationCandidate, bool) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.LocationCandidate{}, false
	}
	return domain.LocationCandidate{Location: location, Tier: tier}, true
}

// TagStrategy matches keyword tags against alias keys. A tag matches when
// its title contains an alias key or an alias key contains its title.
type TagStrategy struct {
	rules []data.AliasRule
}

// NewTagStrategy creates a TagStrategy over the normalizer's rules.
func NewTagStrategy(norm *alias.Normalizer) *TagStrategy {
	return &TagStrategy{rules: norm.Rules()}
}

func (s *TagStrategy) Name() string { return "tag" }

// Extract returns the canonical form of the first alias matching the first
// matching tag.
func (s *TagStrategy) Extract(article *domain.RawArticle) (domain.LocationCandidate, bool) {
	if article == nil {
		return domain.LocationCandidate{}, false
	}
	for _, tag := range article.KeywordTags() {
		if strings.TrimSpace(tag.Title) == "" {
			continue
		}
		for _, r := range s.rules {
			if strings.Contains(tag.Title, r.Alias) || strings.Contains(r.Alias, tag.Title) {
				return candidate(r.Canonical, domain.TierTag)
			}
		}
	}
	return domain.LocationCandidate{}, false
}

// TitleStrategy scans the title for alias keys; the earliest key in table
// order wins, not the earliest position in the title.
type TitleStrategy struct {
	rules   []data.AliasRule
	matcher *keywordMatcher
}

// NewTitleStrategy creates a TitleStrategy over the normalizer's rules.
func NewTitleStrategy(norm *alias.Normalizer) *TitleStrategy {
	rules := norm.Rules()
	keys := make([]string, len(rules))
	for i, r := range rules {
		keys[i] = r.Alias
	}
	return &TitleStrategy{rules: rules, matcher: newKeywordMatcher(keys)}
}

func (s *TitleStrategy) Name() string { return "title" }

func (s *TitleStrategy) Extract(article *domain.RawArticle) (domain.LocationCandidate, bool) {
	if article == nil {
		return domain.LocationCandidate{}, false
	}
	idx, ok := s.matcher.First(article.Title)
	if !ok {
		return domain.LocationCandidate{}, false
	}
	return candidate(s.rules[idx].Canonical, domain.TierTitle)
}

// CityStrategy maps a city named in the title to its country.
type CityStrategy struct {
	cities  []data.CityCountry
	matcher *keywordMatcher
}

// NewCityStrategy creates a CityStrategy over an ordered city table.
func NewCityStrategy(cities []data.CityCountry) *CityStrategy {
	keys := make([]string, len(cities))
	for i, c := range cities {
		keys[i] = c.City
	}
	return &CityStrategy{cities: cities, matcher: newKeywordMatcher(keys)}
}

func (s *CityStrategy) Name() string { return "city" }

func (s *CityStrategy) Extract(article *domain.RawArticle) (domain.LocationCandidate, bool) {
	if article == nil {
		return domain.LocationCandidate{}, false
	}
	idx, ok := s.matcher.First(article.Title)
	if !ok {
		return domain.LocationCandidate{}, false
	}
	return candidate(s.cities[idx].Country, domain.TierCity)
}

// GeoFacetStrategy picks one entry from an explicit geo-tag array. The first
// entry is preferred unless a later entry normalizes to a single word while
// the current pick normalizes to several; single-word names are taken to be
// countries. Multi-word country names can lose to a single-word city.
type GeoFacetStrategy struct {
	norm *alias.Normalizer
}

// NewGeoFacetStrategy creates a GeoFacetStrategy.
func NewGeoFacetStrategy(norm *alias.Normalizer) *GeoFacetStrategy {
	return &GeoFacetStrategy{norm: norm}
}

func (s *GeoFacetStrategy) Name() string { return "geo_facet" }

func (s *GeoFacetStrategy) Extract(article *domain.RawArticle) (domain.LocationCandidate, bool) {
	if article == nil {
		return domain.LocationCandidate{}, false
	}

	selected := ""
	for _, facet := range article.GeoFacets {
		facet = strings.TrimSpace(facet)
		if facet == "" {
			continue
		}
		standard := s.norm.Normalize(facet)
		if selected == "" || (isMultiWord(selected) && !isMultiWord(standard)) {
			selected = standard
		}
	}
	return candidate(selected, domain.TierGeoFacet)
}

func isMultiWord(s string) bool {
	return strings.Contains(s, " ")
}
