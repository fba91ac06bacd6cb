package resolver_test

import (
	"testing"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/alias"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func TestResolve(t *testing.T) {
	t.Parallel()

	r := resolver.Default(logger.NewNop())

	tests := []struct {
		name      string
		candidate string
		matched   string
		tier      domain.MatchTier
		lon, lat  float64
	}{
		{name: "alias then exact", candidate: "U.S.", matched: "United States", tier: domain.MatchExact, lon: -95.7129, lat: 37.0902},
		{name: "exact city", candidate: "Hong Kong", matched: "Hong Kong", tier: domain.MatchExact, lon: 114.1694, lat: 22.3193},
		{name: "case-insensitive", candidate: "pARIS", matched: "Paris", tier: domain.MatchCaseInsensitive, lon: 2.3522, lat: 48.8566},
		{name: "substring, key inside candidate", candidate: "Northern France", matched: "France", tier: domain.MatchSubstring, lon: 2.3522, lat: 48.8566},
		{name: "substring, candidate inside key", candidate: "Saharan", matched: "Sub-Saharan Africa", tier: domain.MatchSubstring, lon: 20, lat: 0},
		{name: "unknown defaults to Europe", candidate: "Ruritania", matched: data.Europe, tier: domain.MatchContinentFallback, lon: 9.19, lat: 48.69},
		{name: "continent Africa", candidate: "Kenya", matched: data.Africa, tier: domain.MatchContinentFallback, lon: 20, lat: 5},
		{name: "continent Australia", candidate: "New Zealand", matched: data.Australia, tier: domain.MatchContinentFallback, lon: 134, lat: -26},
		{name: "continent South America", candidate: "Argentina", matched: data.SouthAmerica, tier: domain.MatchContinentFallback, lon: -60, lat: -20},
		{name: "empty goes to default continent", candidate: "", matched: data.Europe, tier: domain.MatchContinentFallback, lon: 9.19, lat: 48.69},
		{name: "blank goes to default continent", candidate: "   ", matched: data.Europe, tier: domain.MatchContinentFallback, lon: 9.19, lat: 48.69},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := r.Resolve(tt.candidate)
			assert.Equal(t, tt.matched, got.MatchedName)
			assert.Equal(t, tt.tier, got.Tier)
			assert.InDelta(t, tt.lon, got.Coordinate.Longitude, delta)
			assert.InDelta(t, tt.lat, got.Coordinate.Latitude, delta)
		})
	}
}

func TestResolve_Totality(t *testing.T) {
	t.Parallel()

	r := resolver.Default(logger.NewNop())
	inputs := []string{
		"", "x", "???", "Ruritania", "日本", "Zürich", "u.s.", "SOUTH AFRICA",
		"Antarctic research station", "The Pacific Rim", "a very long headline about nowhere in particular",
	}
	for _, p := range data.Gazetteer {
		inputs = append(inputs, p.Name)
	}
	for _, c := range data.CityCountries {
		inputs = append(inputs, c.City, c.Country)
	}

	for _, in := range inputs {
		got := r.Resolve(in)
		assert.Truef(t, got.Coordinate.Valid(), "Resolve(%q) = %s", in, got.Coordinate)
		assert.NotEmptyf(t, got.MatchedName, "Resolve(%q) matched name", in)
	}
}

func TestMatchTiers_Independently(t *testing.T) {
	t.Parallel()

	r := resolver.Default(logger.NewNop())

	_, _, ok := r.MatchExact("france")
	assert.False(t, ok)

	name, _, ok := r.MatchCaseInsensitive("FRANCE")
	require.True(t, ok)
	assert.Equal(t, "France", name)

	_, _, ok = r.MatchSubstring("")
	assert.False(t, ok, "empty never matches by substring")

	continent, coord := r.InferContinent("Hanoi, Vietnam")
	assert.Equal(t, data.Asia, continent)
	assert.InDelta(t, 100, coord.Longitude, delta)

	continent, _ = r.InferContinent("U.S. Gulf Coast")
	assert.Equal(t, data.NorthAmerica, continent)
}

func TestMatchCaseInsensitive_UnicodeFolding(t *testing.T) {
	t.Parallel()

	r, err := resolver.New(resolver.Tables{
		Gazetteer:        []data.Place{{Name: "Zürich", Coordinate: domain.FromLonLat(8.54, 47.37)}},
		Continents:       data.ContinentFallbacks,
		DefaultContinent: data.Europe,
	}, alias.MustNew(nil), logger.NewNop())
	require.NoError(t, err)

	got := r.Resolve("ZÜRICH")
	assert.Equal(t, "Zürich", got.MatchedName)
	assert.Equal(t, domain.MatchCaseInsensitive, got.Tier)
}

func TestMatchSubstring_FollowsTableOrder(t *testing.T) {
	t.Parallel()

	sudan := data.Place{Name: "Sudan", Coordinate: domain.FromLonLat(30, 15)}
	southSudan := data.Place{Name: "South Sudan", Coordinate: domain.FromLonLat(31, 7)}

	build := func(places ...data.Place) *resolver.Resolver {
		r, err := resolver.New(resolver.Tables{
			Gazetteer:        places,
			Continents:       data.ContinentFallbacks,
			DefaultContinent: data.Europe,
		}, alias.MustNew(nil), logger.NewNop())
		require.NoError(t, err)
		return r
	}

	assert.Equal(t, "Sudan", build(sudan, southSudan).Resolve("South Sudan crisis").MatchedName)
	assert.Equal(t, "South Sudan", build(southSudan, sudan).Resolve("South Sudan crisis").MatchedName)
}

func TestResolveCountryCenter(t *testing.T) {
	t.Parallel()

	r := resolver.Default(logger.NewNop())

	uk := r.ResolveCountryCenter("United Kingdom")
	assert.InDelta(t, -3.4360, uk.Longitude, delta)
	assert.InDelta(t, 55.3781, uk.Latitude, delta)

	usa := r.ResolveCountryCenter("USA")
	assert.InDelta(t, -95.7129, usa.Longitude, delta)

	// No curated centroid: falls back to Resolve.
	nl := r.ResolveCountryCenter("Netherlands")
	assert.InDelta(t, 9.19, nl.Longitude, delta)
	assert.InDelta(t, 48.69, nl.Latitude, delta)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := resolver.New(resolver.Tables{
		Continents:       data.ContinentFallbacks,
		DefaultContinent: "Atlantis",
	}, nil, nil)
	require.ErrorIs(t, err, resolver.ErrUnknownContinent)

	_, err = resolver.New(resolver.Tables{
		Continents:       data.ContinentFallbacks,
		DefaultContinent: data.Europe,
		ContinentRules:   []data.ContinentPattern{{Pattern: "(", Continent: data.Asia}},
	}, nil, nil)
	require.Error(t, err)
}
