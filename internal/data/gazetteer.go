// Package data holds the read-only reference tables: the gazetteer, the
// continent fallbacks, the country centroids and the alias and city tables
// used by extraction. Every table is an ordered slice because lookup order
// is observable.
package data

import (
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

// Place is a named coordinate.
type Place struct {
	Name       string
	Coordinate domain.Coordinate
}

func place(name string, lon, lat float64) Place {
	return Place{Name: name, Coordinate: domain.FromLonLat(lon, lat)}
}

// Gazetteer lists canonical place names (countries, then major cities, then
// named regions) in resolver iteration order.
var Gazetteer = []Place{
	// Countries
	place("United States", -95.7129, 37.0902),
	place("Russia", 37.6173, 55.7558),
	place("China", 116.4074, 39.9042),
	place("United Kingdom", -0.1278, 51.5074),
	place("France", 2.3522, 48.8566),
	place("Germany", 13.4050, 52.5200),
	place("Japan", 139.6917, 35.6895),
	place("India", 77.2090, 28.6139),
	place("Brazil", -47.9292, -15.7801),
	place("Canada", -75.6972, 45.4215),
	place("Australia", 149.1300, -35.2809),
	place("South Africa", 28.0473, -26.2041),
	place("Mexico", -99.1332, 19.4326),
	place("Italy", 12.4964, 41.9028),
	place("Spain", -3.7038, 40.4168),
	place("Ukraine", 30.5234, 50.4501),

	// Major cities
	place("New York", -74.0060, 40.7128),
	place("Los Angeles", -118.2437, 34.0522),
	place("Chicago", -87.6298, 41.8781),
	place("London", -0.1278, 51.5074),
	place("Paris", 2.3522, 48.8566),
	place("Tokyo", 139.6917, 35.6895),
	place("Beijing", 116.4074, 39.9042),
	place("Moscow", 37.6173, 55.7558),
	place("Sydney", 151.2093, -33.8688),
	place("Toronto", -79.3832, 43.6532),
	place("Berlin", 13.4050, 52.5200),
	place("Istanbul", 28.9784, 41.0082),
	place("Dubai", 55.2708, 25.2048),
	place("Hong Kong", 114.1694, 22.3193),
	place("Singapore", 103.8198, 1.3521),

	// Regions
	place("Middle East", 44.0150, 33.0),
	place("Europe", 9.19, 48.69),
	place("Asia", 100, 34),
	place("Africa", 20, 5),
	place("North America", -100, 40),
	place("South America", -60, -20),
	place("Central America", -85, 15),
	place("Caribbean", -75, 18),
	place("Eastern Europe", 25, 52),
	place("Western Europe", 5, 48),
	place("Southeast Asia", 107, 13),
	place("East Asia", 115, 35),
	place("South Asia", 80, 20),
	place("Central Asia", 65, 43),
	place("North Africa", 20, 28),
	place("Sub-Saharan Africa", 20, 0),
	place("Scandinavia", 15, 62),
	place("Balkans", 21, 42),
	place("Latin America", -80, -10),
}

// Continent names used by the fallback tier.
const (
	NorthAmerica = "North America"
	SouthAmerica = "South America"
	Europe       = "Europe"
	Asia         = "Asia"
	Africa       = "Africa"
	Australia    = "Australia"
	Antarctica   = "Antarctica"
)

// DefaultContinent is assigned when no continent pattern matches.
const DefaultContinent = Europe

// ContinentFallbacks holds one centroid per continent.
var ContinentFallbacks = []Place{
	place(NorthAmerica, -100, 40),
	place(SouthAmerica, -60, -20),
	place(Europe, 9.19, 48.69),
	place(Asia, 100, 34),
	place(Africa, 20, 5),
	place(Australia, 134, -26),
	place(Antarctica, 0, -90),
}

// ContinentPattern assigns a continent to any location matching Pattern
// (a case-insensitive regular expression).
type ContinentPattern struct {
	Pattern   string
	Continent string
}

// ContinentPatterns are evaluated in order; the first match wins.
var ContinentPatterns = []ContinentPattern{
	{Pattern: `europe|france|germany|italy|spain|uk|england|britain|portugal|greece|netherlands|belgium|switzerland|austria|poland|ukraine|russia`, Continent: Europe},
	{Pattern: `asia|china|japan|india|korea|thailand|vietnam|philippines|indonesia|malaysia|singapore|pakistan|bangladesh`, Continent: Asia},
	{Pattern: `africa|egypt|nigeria|kenya|south africa|morocco|algeria|tunisia|ghana|ethiopia|somalia|sudan`, Continent: Africa},
	{Pattern: `north america|united states|usa|u\.s\.|canada|mexico`, Continent: NorthAmerica},
	{Pattern: `south america|brazil|argentina|chile|peru|colombia|venezuela|ecuador|bolivia`, Continent: SouthAmerica},
	{Pattern: `australia|new zealand|pacific|oceania`, Continent: Australia},
}

// CountryCenters are geographic centroids used to anchor country-level
// stories. Common short forms share their country's centroid.
var CountryCenters = []Place{
	place("United States", -95.7129, 37.0902),
	place("US", -95.7129, 37.0902),
	place("USA", -95.7129, 37.0902),
	place("United Kingdom", -3.4360, 55.3781),
	place("UK", -3.4360, 55.3781),
	place("Russia", 105.3188, 61.5240),
	place("China", 104.1954, 35.8617),
	place("India", 78.9629, 20.5937),
	place("Japan", 138.2529, 36.2048),
	place("Germany", 10.4515, 51.1657),
	place("France", 2.2137, 46.2276),
	place("Brazil", -51.9253, -14.2350),
	place("Canada", -106.3468, 56.1304),
	place("Australia", 133.7751, -25.2744),
	place("Italy", 12.5674, 41.8719),
	place("Spain", -3.7492, 40.4637),
	place("Mexico", -102.5528, 23.6345),
	place("Indonesia", 113.9213, -0.7893),
	place("South Korea", 127.7669, 35.9078),
	place("Turkey", 35.2433, 38.9637),
	place("Israel", 34.8516, 31.0461),
	place("Ukraine", 31.1656, 48.3794),
	place("South Africa", 22.9375, -30.5595),
	place("Egypt", 30.8025, 26.8206),
	place("Pakistan", 69.3451, 30.3753),
	place("Iran", 53.6880, 32.4279),
	place("Saudi Arabia", 45.0792, 23.8859),
}

// CountryNames decides whether a canonical location is country-level.
var CountryNames = []string{
	"United States", "US", "USA", "China", "Russia", "India", "Brazil",
	"United Kingdom", "UK", "France", "Germany", "Japan", "Canada", "Italy",
	"Spain", "Australia", "South Korea", "Mexico", "Indonesia", "Netherlands",
	"Saudi Arabia", "Turkey", "Switzerland", "Israel", "Poland", "Sweden",
	"Belgium", "Norway", "Austria", "Ukraine", "South Africa", "Egypt",
	"Denmark", "Singapore", "Hong Kong", "Finland", "Ireland", "Portugal",
	"Greece", "New Zealand", "Czech Republic", "Romania", "Chile", "Peru",
	"Pakistan", "Vietnam", "Bangladesh", "Nigeria", "Kenya", "Ghana",
}
