package domain

// ResolvedItem is an article with its canonical location and coordinates.
// CanonicalLocation is never empty.
type ResolvedItem struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Abstract          string    `json:"abstract"`
	URL               string    `json:"url"`
	PublishedDate     string    `json:"publishedDate"`
	SourceName        string    `json:"sourceName"`
	CanonicalLocation string    `json:"location"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	IsCountryLevel    bool      `json:"isCountryLevel,omitempty"`
	MatchedName       string    `json:"matchedName,omitempty"`
	MatchTier         MatchTier `json:"matchTier"`
}

// Coordinate returns the item's position.
func (r ResolvedItem) Coordinate() Coordinate {
	return Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

// MarkerKind discriminates MarkerGroup.
type MarkerKind string

const (
	MarkerCluster MarkerKind = "cluster"
	MarkerPoint   MarkerKind = "point"
)

// Cluster aggregates every item sharing one canonical location. Sources
// lists the distinct member source names in first-seen order.
type Cluster struct {
	Location       string         `json:"location"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	Count          int            `json:"count"`
	IsCountryLevel bool           `json:"isCountryLevel"`
	Sources        []string       `json:"sources"`
	Members        []ResolvedItem `json:"items"`
}

// OffsetPoint is a single item drawn away from its true position so
// co-located items do not overlap.
type OffsetPoint struct {
	Item      ResolvedItem `json:"item"`
	OffsetLat float64      `json:"offsetLat"`
	OffsetLon float64      `json:"offsetLon"`
}

// MarkerGroup is one map marker: exactly one of Cluster or Point is set,
// according to Kind.
type MarkerGroup struct {
	Kind    MarkerKind   `json:"kind"`
	Cluster *Cluster     `json:"cluster,omitempty"`
	Point   *OffsetPoint `json:"point,omitempty"`
}

// NewClusterMarker wraps a cluster.
func NewClusterMarker(c Cluster) MarkerGroup {
	return MarkerGroup{Kind: MarkerCluster, Cluster: &c}
}

// NewPointMarker wraps an offset point.
func NewPointMarker(p OffsetPoint) MarkerGroup {
	return MarkerGroup{Kind: MarkerPoint, Point: &p}
}
