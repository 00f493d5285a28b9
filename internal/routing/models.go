// Package routing fetches walking route geometry and ranks route
// candidates for walk recommendations.
package routing

import (
	"errors"

	"github.com/pawroute/pawroute/internal/poi"
	"github.com/pawroute/pawroute/pkg/polyline"
)

// Routing errors.
var (
	ErrNoRoute             = errors.New("no walking route found")
	ErrProviderUnavailable = errors.New("routing provider unavailable")
)

// Route is walking geometry between two points.
type Route struct {
	// Geometry is the decoded path, origin first. Always has at least
	// two points.
	Geometry []polyline.Point

	// Polyline is the encoded form when the provider supplied one.
	Polyline string

	// DistanceM is the walking distance in meters. When the provider
	// omits it the service fills it from the geometry.
	DistanceM int
}

// Candidate is a routed destination ready for ranking.
type Candidate struct {
	POI           poi.Candidate    `json:"poi"`
	Geometry      []polyline.Point `json:"-"`
	Polyline      string           `json:"polyline,omitempty"`
	DistanceM     int              `json:"distanceM"`
	OneWayMinutes int              `json:"oneWayMinutes"`
	Score         int              `json:"score"`
	Reason        string           `json:"reason,omitempty"`
}
