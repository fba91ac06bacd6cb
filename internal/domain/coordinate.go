package domain

import (
	"fmt"
	"math"
)

// Coordinate is a geographic position in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FromLonLat builds a Coordinate from a [longitude, latitude] pair.
func FromLonLat(lon, lat float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lon}
}

// Valid reports whether the coordinate is finite and within
// latitude [-90, 90] and longitude [-180, 180].
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}

// MatchTier is the resolver rule that produced a coordinate.
type MatchTier int

const (
	MatchExact MatchTier = iota
	MatchCaseInsensitive
	MatchSubstring
	MatchContinentFallback
)

var matchTierNames = [...]string{"exact", "case_insensitive", "substring", "continent_fallback"}

func (t MatchTier) String() string {
	if t < 0 || int(t) >= len(matchTierNames) {
		return "unknown"
	}
	return matchTierNames[t]
}

// MarshalText encodes the tier by name.
func (t MatchTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *MatchTier) UnmarshalText(b []byte) error {
	for i, name := range matchTierNames {
		if name == string(b) {
			*t = MatchTier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown match tier %q", string(b))
}
