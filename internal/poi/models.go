// Package poi finds and classifies candidate walk destinations.
package poi

import (
	"errors"
	"fmt"
	"strings"
)

// POI errors.
var (
	ErrProviderUnavailable = errors.New("poi provider unavailable")
	ErrInvalidRadius       = errors.New("search radius out of range")
)

// Search radius bounds in meters.
const (
	MinRadiusM = 100
	MaxRadiusM = 3000
)

// Kind is the coarse destination category used by ranking.
type Kind string

const (
	KindPark        Kind = "park"
	KindFootway     Kind = "footway"
	KindPetFriendly Kind = "pet_friendly"
	KindOther       Kind = "other"
)

// Candidate is one potential walk destination.
type Candidate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`

	// RawKind is the provider's own category string (e.g. "park",
	// "footway", "pet_cafe"). Classification derives Kind from it.
	RawKind string `json:"rawKind,omitempty"`

	Kind            Kind              `json:"kind"`
	EnvironmentTags []string          `json:"environmentTags,omitempty"`
	PetFriendly     bool              `json:"petFriendly"`
	Tags            map[string]string `json:"-"`

	// ApproxDistanceM is a straight-line estimate from the origin, not a
	// routed distance. Zero means unknown.
	ApproxDistanceM int `json:"approxDistanceM,omitempty"`
}

// dedupKey identifies a candidate across source lists. Coordinates are
// rounded to 5 decimals (~1m) so the same place from two queries collides.
func (c Candidate) dedupKey() string {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	return fmt.Sprintf("%s|%.5f|%.5f", name, c.Lat, c.Lon)
}
