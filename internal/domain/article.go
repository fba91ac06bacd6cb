// Package domain holds the data model shared by extraction, resolution and
// layout.
package domain

// KeywordTagType is the tag type carrying subject keywords.
const KeywordTagType = "keyword"

// Tag is a typed subject tag attached to an article.
type Tag struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// RawArticle is source-neutral article metadata as produced by a feed client.
// Any field may be empty.
type RawArticle struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"publishedDate"`
	Section       string   `json:"section"`
	Tags          []Tag    `json:"tags,omitempty"`
	GeoFacets     []string `json:"geoFacets,omitempty"`
	Source        string   `json:"source"`
}

// KeywordTags returns the article's keyword tags in their original order.
func (a *RawArticle) KeywordTags() []Tag {
	var out []Tag
	for _, t := range a.Tags {
		if t.Type == KeywordTagType {
			out = append(out, t)
		}
	}
	return out
}

// ConfidenceTier records which extraction rule produced a candidate.
type ConfidenceTier int

const (
	// TierCity is a city name found in the title, mapped to its country.
	TierCity ConfidenceTier = iota + 1
	// TierTitle is an alias key found in the title.
	TierTitle
	// TierTag is a keyword tag overlapping an alias key.
	TierTag
	// TierGeoFacet is an entry of an explicit geographic tag array.
	TierGeoFacet
)

func (t ConfidenceTier) String() string {
	switch t {
	case TierCity:
		return "city"
	case TierTitle:
		return "title"
	case TierTag:
		return "tag"
	case TierGeoFacet:
		return "geo_facet"
	default:
		return "unknown"
	}
}

// LocationCandidate is the location string chosen for one article.
type LocationCandidate struct {
	Location string         `json:"location"`
	Tier     ConfidenceTier `json:"tier"`
}
