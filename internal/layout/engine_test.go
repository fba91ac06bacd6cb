package layout_test

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/data"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/elizabethzhu1/newsmapper/internal/layout"
	"github.com/elizabethzhu1/newsmapper/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func newEngine(t *testing.T) *layout.Engine {
	t.Helper()
	return layout.New(resolver.Default(logger.NewNop()), data.CountryNames)
}

func item(id, location string, lat, lon float64) domain.ResolvedItem {
	return domain.ResolvedItem{
		ID:                id,
		Title:             "Story " + id,
		SourceName:        "The Guardian",
		CanonicalLocation: location,
		Latitude:          lat,
		Longitude:         lon,
	}
}

func TestLayout_AggregateClustersByLocation(t *testing.T) {
	t.Parallel()

	items := []domain.ResolvedItem{
		item("a", "France", 48.8566, 2.3522),
		item("b", "Tokyo", 35.6895, 139.6917),
		item("c", "France", 48.8566, 2.3522),
	}
	items[2].SourceName = "The New York Times"

	markers := newEngine(t).Layout(items, layout.Options{Aggregate: true, ZoomFactor: 1})
	require.Len(t, markers, 2)

	france := markers[0]
	require.Equal(t, domain.MarkerCluster, france.Kind)
	require.NotNil(t, france.Cluster)
	assert.Equal(t, "France", france.Cluster.Location)
	assert.Equal(t, 2, france.Cluster.Count)
	require.Len(t, france.Cluster.Members, 2)
	assert.Equal(t, "a", france.Cluster.Members[0].ID)
	assert.Equal(t, "c", france.Cluster.Members[1].ID)
	assert.True(t, france.Cluster.IsCountryLevel)
	assert.InDelta(t, 46.2276, france.Cluster.Latitude, delta)
	assert.InDelta(t, 2.2137, france.Cluster.Longitude, delta)
	assert.Equal(t, []string{"The Guardian", "The New York Times"}, france.Cluster.Sources)

	tokyo := markers[1].Cluster
	require.NotNil(t, tokyo)
	assert.Equal(t, 1, tokyo.Count)
	assert.False(t, tokyo.IsCountryLevel)
	assert.InDelta(t, 35.6895, tokyo.Latitude, delta)
}

func TestLayout_CountryLevelAnchoring(t *testing.T) {
	t.Parallel()

	// Resolved to London, but the story is about the whole country.
	uk := item("uk", "United Kingdom", 51.5074, -0.1278)

	markers := newEngine(t).Layout([]domain.ResolvedItem{uk}, layout.Options{ZoomFactor: 3})
	require.Len(t, markers, 1)
	require.Equal(t, domain.MarkerPoint, markers[0].Kind)

	p := markers[0].Point
	assert.True(t, p.Item.IsCountryLevel)
	assert.InDelta(t, 55.3781, p.Item.Latitude, delta)
	assert.InDelta(t, -3.4360, p.Item.Longitude, delta)
	assert.Zero(t, p.OffsetLat)
	assert.Zero(t, p.OffsetLon)
}

func TestLayout_ThreeCoLocatedPointsOnCircle(t *testing.T) {
	t.Parallel()

	items := []domain.ResolvedItem{
		item("1", "Paris", 48.8566, 2.3522),
		item("2", "Paris", 48.8566, 2.3522),
		item("3", "Paris", 48.8568, 2.3524),
	}

	markers := newEngine(t).Layout(items, layout.Options{ZoomFactor: 1})
	require.Len(t, markers, 3)

	for k, m := range markers {
		require.Equal(t, domain.MarkerPoint, m.Kind)
		angle := 2 * math.Pi * float64(k) / 3
		assert.Equal(t, fmt.Sprint(k+1), m.Point.Item.ID)
		assert.InDelta(t, 0.7*math.Cos(angle), m.Point.OffsetLon, delta)
		assert.InDelta(t, 0.7*math.Sin(angle), m.Point.OffsetLat, delta)
		assert.InDelta(t, 0.7, math.Hypot(m.Point.OffsetLat, m.Point.OffsetLon), delta)
	}
	assert.InDelta(t, 0.7, markers[0].Point.OffsetLon, delta)
	assert.InDelta(t, 0, markers[0].Point.OffsetLat, delta)
}

func TestLayout_OffsetRadius(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		zoom    float64
		country bool
		want    float64
	}{
		{name: "zoom 1", zoom: 1, want: 0.7},
		{name: "zoom 2", zoom: 2, want: 0.35},
		{name: "zoom below 1 clamps", zoom: 0.5, want: 0.7},
		{name: "zero zoom clamps", zoom: 0, want: 0.7},
		{name: "NaN zoom clamps", zoom: math.NaN(), want: 0.7},
		{name: "infinite zoom clamps", zoom: math.Inf(1), want: 0.7},
		{name: "negative infinite zoom clamps", zoom: math.Inf(-1), want: 0.7},
		{name: "country-level widens", zoom: 1, country: true, want: 1.05},
		{name: "country-level at zoom 3.5", zoom: 3.5, country: true, want: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, layout.OffsetRadius(tt.zoom, tt.country), delta)
		})
	}
}

func TestLayout_CountryGroupUsesWiderRadius(t *testing.T) {
	t.Parallel()

	items := []domain.ResolvedItem{
		item("a", "Germany", 52.52, 13.405),
		item("b", "Germany", 52.52, 13.405),
	}

	markers := newEngine(t).Layout(items, layout.Options{ZoomFactor: 1})
	require.Len(t, markers, 2)
	assert.InDelta(t, 1.05, markers[0].Point.OffsetLon, delta)
	assert.InDelta(t, -1.05, markers[1].Point.OffsetLon, delta)
}

func TestLayout_NoOverlap(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	for n := 2; n <= 50; n++ {
		items := make([]domain.ResolvedItem, n)
		for i := range items {
			items[i] = item(fmt.Sprint(i), "Nairobi", -1.2921, 36.8219)
		}

		seen := make(map[string]bool, n)
		for _, m := range engine.Layout(items, layout.Options{ZoomFactor: 2}) {
			p := m.Point
			key := fmt.Sprintf("%.9f,%.9f", p.Item.Latitude+p.OffsetLat, p.Item.Longitude+p.OffsetLon)
			assert.Falsef(t, seen[key], "group of %d: duplicate final position %s", n, key)
			seen[key] = true
		}
		assert.Len(t, seen, n)
	}
}

func TestLayout_InfiniteZoomKeepsPointsApart(t *testing.T) {
	t.Parallel()

	items := []domain.ResolvedItem{
		item("a", "Nairobi", -1.2921, 36.8219),
		item("b", "Nairobi", -1.2921, 36.8219),
		item("c", "Nairobi", -1.2921, 36.8219),
	}

	markers := newEngine(t).Layout(items, layout.Options{ZoomFactor: math.Inf(1)})
	require.Len(t, markers, 3)

	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		p := m.Point
		assert.InDelta(t, 0.7, math.Hypot(p.OffsetLat, p.OffsetLon), 1e-6)
		seen[fmt.Sprintf("%.9f,%.9f", p.OffsetLat, p.OffsetLon)] = true
	}
	assert.Len(t, seen, 3)
}

func TestLayout_Deterministic(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	items := []domain.ResolvedItem{
		item("a", "United States", 40.7128, -74.006),
		item("b", "Gaza", 31.5, 34.47),
		item("c", "Gaza", 31.5, 34.47),
		item("d", "USA", 37.0902, -95.7129),
		item("e", "Europe", 48.69, 9.19),
	}

	for _, opts := range []layout.Options{{Aggregate: true, ZoomFactor: 1}, {ZoomFactor: 3}} {
		first, err := json.Marshal(engine.Layout(items, opts))
		require.NoError(t, err)
		second, err := json.Marshal(engine.Layout(items, opts))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	}
}

func TestLayout_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := []domain.ResolvedItem{item("a", "Japan", 35.6895, 139.6917)}
	before := items[0]

	_ = newEngine(t).Layout(items, layout.Options{ZoomFactor: 1})
	assert.Equal(t, before, items[0])
}

func TestLayout_Empty(t *testing.T) {
	t.Parallel()

	markers := newEngine(t).Layout(nil, layout.Options{Aggregate: true})
	assert.NotNil(t, markers)
	assert.Empty(t, markers)
}

func TestAggregateForZoom(t *testing.T) {
	t.Parallel()

	assert.True(t, layout.AggregateForZoom(1))
	assert.True(t, layout.AggregateForZoom(2.49))
	assert.False(t, layout.AggregateForZoom(2.5))
	assert.False(t, layout.AggregateForZoom(4))

	opts := layout.OptionsForZoom(3)
	assert.False(t, opts.Aggregate)
	assert.InDelta(t, 3, opts.ZoomFactor, delta)
}

func TestClampZoom(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1, layout.ClampZoom(0.2), delta)
	assert.InDelta(t, 1, layout.ClampZoom(math.NaN()), delta)
	assert.InDelta(t, 2.25, layout.ClampZoom(2.25), delta)
	assert.InDelta(t, 4, layout.ClampZoom(10), delta)
}

func TestFilterSources(t *testing.T) {
	t.Parallel()

	a := item("a", "France", 0, 0)
	b := item("b", "France", 0, 0)
	b.SourceName = "The New York Times"
	items := []domain.ResolvedItem{a, b}

	assert.Len(t, layout.FilterSources(items, nil), 2)

	only := layout.FilterSources(items, []string{"The New York Times"})
	require.Len(t, only, 1)
	assert.Equal(t, "b", only[0].ID)

	assert.Empty(t, layout.FilterSources(items, []string{"Reuters"}))
}
