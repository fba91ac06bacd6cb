package data

// AliasRule maps a source-specific spelling to a canonical name.
type AliasRule struct {
	Alias     string
	Canonical string
}

// NYTimesAliases standardizes New York Times geo facets.
var NYTimesAliases = []AliasRule{
	{"U.S.", "United States"},
	{"United States", "United States"},
	{"America", "United States"},
	{"U.K.", "United Kingdom"},
	{"Britain", "United Kingdom"},
	{"England", "United Kingdom"},
}

// GuardianAliases is both the Guardian normalization table and the ordered
// key list scanned by tag and title extraction.
var GuardianAliases = []AliasRule{
	{"US", "United States"},
	{"USA", "United States"},
	{"America", "United States"},
	{"UK", "United Kingdom"},
	{"Britain", "United Kingdom"},
	{"England", "United Kingdom"},
	{"Russia", "Russia"},
	{"China", "China"},
	{"India", "India"},
	{"Japan", "Japan"},
	{"Germany", "Germany"},
	{"France", "France"},
	{"Italy", "Italy"},
	{"Spain", "Spain"},
	{"Canada", "Canada"},
	{"Australia", "Australia"},
	{"Brazil", "Brazil"},
	{"South Korea", "South Korea"},
	{"North Korea", "North Korea"},
	{"Pakistan", "Pakistan"},
	{"Bangladesh", "Bangladesh"},
	{"Iran", "Iran"},
	{"Iraq", "Iraq"},
	{"Saudi Arabia", "Saudi Arabia"},
	{"Israel", "Israel"},
	{"Palestine", "Palestine"},
	{"Gaza", "Gaza"},
	{"Syria", "Syria"},
	{"Egypt", "Egypt"},
	{"South Africa", "South Africa"},
	{"Nigeria", "Nigeria"},
	{"Kenya", "Kenya"},
	{"Ethiopia", "Ethiopia"},
	{"Mexico", "Mexico"},
	{"Argentina", "Argentina"},
	{"Colombia", "Colombia"},
	{"Venezuela", "Venezuela"},
	{"Turkey", "Turkey"},
	{"Indonesia", "Indonesia"},
	{"Malaysia", "Malaysia"},
	{"Philippines", "Philippines"},
	{"Vietnam", "Vietnam"},
	{"Thailand", "Thailand"},
	{"Myanmar", "Myanmar"},
	{"Burma", "Myanmar"},
	{"Afghanistan", "Afghanistan"},
	{"Ukraine", "Ukraine"},
}

// CityCountry maps a world city to the country it is in.
type CityCountry struct {
	City    string
	Country string
}

// CityCountries is scanned in order by the city fallback.
var CityCountries = []CityCountry{
	{"Beijing", "China"},
	{"Shanghai", "China"},
	{"Delhi", "India"},
	{"Mumbai", "India"},
	{"New York", "United States"},
	{"Washington", "United States"},
	{"London", "United Kingdom"},
	{"Paris", "France"},
	{"Berlin", "Germany"},
	{"Tokyo", "Japan"},
	{"Moscow", "Russia"},
	{"Cairo", "Egypt"},
	{"Dhaka", "Bangladesh"},
	{"Islamabad", "Pakistan"},
	{"Kyiv", "Ukraine"},
	{"Kabul", "Afghanistan"},
	{"Tehran", "Iran"},
	{"Baghdad", "Iraq"},
	{"Seoul", "South Korea"},
	{"Pyongyang", "North Korea"},
	{"Bangkok", "Thailand"},
	{"Yangon", "Myanmar"},
	{"Istanbul", "Turkey"},
	{"Tel Aviv", "Israel"},
	{"Jerusalem", "Israel"},
	{"Gaza City", "Gaza"},
	{"Nairobi", "Kenya"},
	{"Lagos", "Nigeria"},
	{"Johannesburg", "South Africa"},
}
