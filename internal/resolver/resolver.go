// Package resolver turns free-text location candidates into coordinates.
// Resolution never fails: a string that matches nothing is assigned to a
// continent by pattern and gets that continent's centroid.
package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/alias"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"golang.org/x/text/cases"
)

// ErrUnknownContinent is returned when a continent rule or the default
// continent has no centroid.
var ErrUnknownContinent = errors.New("continent has no centroid")

// Result is the outcome of resolving one candidate.
type Result struct {
	Coordinate  domain.Coordinate `json:"coordinate"`
	MatchedName string            `json:"matchedName"`
	Tier        domain.MatchTier  `json:"tier"`
}

type entry struct {
	name   string
	folded string
	coord  domain.Coordinate
}

type continentRule struct {
	re        *regexp.Regexp
	continent string
}

// Resolver resolves candidates against immutable tables. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	norm             *alias.Normalizer
	entries          []entry
	exact            map[string]int
	continents       map[string]domain.Coordinate
	rules            []continentRule
	defaultContinent string
	centers          map[string]domain.Coordinate
	logger           logger.Logger
}

// New builds a Resolver. Continent patterns are compiled case-insensitively.
func New(tables Tables, norm *alias.Normalizer, log logger.Logger) (*Resolver, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if norm == nil {
		norm = alias.Default()
	}

	r := &Resolver{
		norm:             norm,
		entries:          make([]entry, 0, len(tables.Gazetteer)),
		exact:            make(map[string]int, len(tables.Gazetteer)),
		continents:       make(map[string]domain.Coordinate, len(tables.Continents)),
		rules:            make([]continentRule, 0, len(tables.ContinentRules)),
		defaultContinent: tables.DefaultContinent,
		centers:          make(map[string]domain.Coordinate, len(tables.CountryCenters)),
		logger:           log,
	}

	for _, p := range tables.Gazetteer {
		if _, dup := r.exact[p.Name]; dup {
			continue
		}
		r.exact[p.Name] = len(r.entries)
		r.entries = append(r.entries, entry{name: p.Name, folded: fold(p.Name), coord: p.Coordinate})
	}

	for _, p := range tables.Continents {
		r.continents[p.Name] = p.Coordinate
	}
	if _, ok := r.continents[r.defaultContinent]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownContinent, r.defaultContinent)
	}

	for _, rule := range tables.ContinentRules {
		if _, ok := r.continents[rule.Continent]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContinent, rule.Continent)
		}
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile continent pattern for %s: %w", rule.Continent, err)
		}
		r.rules = append(r.rules, continentRule{re: re, continent: rule.Continent})
	}

	for _, p := range tables.CountryCenters {
		if _, dup := r.centers[p.Name]; !dup {
			r.centers[p.Name] = p.Coordinate
		}
	}

	return r, nil
}

// Default builds a Resolver over the built-in tables and merged aliases.
func Default(log logger.Logger) *Resolver {
	r, err := New(DefaultTables(), alias.Default(), log)
	if err != nil {
		panic(fmt.Sprintf("built-in resolver tables are invalid: %v", err))
	}
	return r
}

// fold applies Unicode case folding. Casers are stateful, so one is created
// per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Resolve maps a candidate to a coordinate. The candidate is normalized
// first; then exact, case-insensitive and substring matches are tried in
// that order before continent inference.
func (r *Resolver) Resolve(candidate string) Result {
	normalized := r.norm.Normalize(strings.TrimSpace(candidate))

	res, ok := r.match(normalized)
	if !ok {
		continent, coord := r.InferContinent(normalized)
		res = Result{Coordinate: coord, MatchedName: continent, Tier: domain.MatchContinentFallback}
	}

	r.logger.Debug("Location resolved",
		logger.String("candidate", candidate),
		logger.String("normalized", normalized),
		logger.String("matched", res.MatchedName),
		logger.String("tier", res.Tier.String()),
	)
	return res
}

func (r *Resolver) match(location string) (Result, bool) {
	if location == "" {
		return Result{}, false
	}
	if name, coord, ok := r.MatchExact(location); ok {
		return Result{Coordinate: coord, MatchedName: name, Tier: domain.MatchExact}, true
	}
	if name, coord, ok := r.MatchCaseInsensitive(location); ok {
		return Result{Coordinate: coord, MatchedName: name, Tier: domain.MatchCaseInsensitive}, true
	}
	if name, coord, ok := r.MatchSubstring(location); ok {
		return Result{Coordinate: coord, MatchedName: name, Tier: domain.MatchSubstring}, true
	}
	return Result{}, false
}

// MatchExact looks location up as an exact gazetteer key.
func (r *Resolver) MatchExact(location string) (string, domain.Coordinate, bool) {
	i, ok := r.exact[location]
	if !ok {
		return "", domain.Coordinate{}, false
	}
	e := r.entries[i]
	return e.name, e.coord, true
}

// MatchCaseInsensitive returns the first key equal to location under case
// folding.
func (r *Resolver) MatchCaseInsensitive(location string) (string, domain.Coordinate, bool) {
	if location == "" {
		return "", domain.Coordinate{}, false
	}
	f := fold(location)
	for _, e := range r.entries {
		if e.folded == f {
			return e.name, e.coord, true
		}
	}
	return "", domain.Coordinate{}, false
}

// MatchSubstring returns the first key, in table order, that contains
// location or is contained in it, ignoring case. The first hit is not
// necessarily the closest match.
func (r *Resolver) MatchSubstring(location string) (string, domain.Coordinate, bool) {
	if location == "" {
		return "", domain.Coordinate{}, false
	}
	f := fold(location)
	for _, e := range r.entries {
		if strings.Contains(e.folded, f) || strings.Contains(f, e.folded) {
			return e.name, e.coord, true
		}
	}
	return "", domain.Coordinate{}, false
}

// InferContinent assigns location to a continent by the first matching
// rule, or the default continent, and returns that continent's centroid.
func (r *Resolver) InferContinent(location string) (string, domain.Coordinate) {
	continent := r.defaultContinent
	for _, rule := range r.rules {
		if rule.re.MatchString(location) {
			continent = rule.continent
			break
		}
	}
	return continent, r.continents[continent]
}

// ResolveCountryCenter returns the country centroid for an exact country
// key, falling back to Resolve.
func (r *Resolver) ResolveCountryCenter(country string) domain.Coordinate {
	if c, ok := r.centers[country]; ok {
		return c
	}
	return r.Resolve(country).Coordinate
}
