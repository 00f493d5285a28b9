// Package recommend composes weather, safety, destination and routing
// services into walk recommendations.
package recommend

import (
	"errors"
	"time"

	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/routing"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/internal/weather"
)

// Recommendation errors.
var (
	ErrInvalidRequest = errors.New("invalid recommendation request")
	ErrNoWeatherData  = errors.New("no weather data for location")
)

// Request is one recommendation query.
type Request struct {
	Lat float64     `json:"lat"`
	Lon float64     `json:"lon"`
	Dog dog.Profile `json:"dog"`

	// RadiusM bounds the destination search. Zero means "derive from the
	// dog profile and current heat".
	RadiusM int `json:"radiusM,omitempty"`

	// MaxRoutes is the K for route ranking, clamped to [1,5]. Zero
	// means 3.
	MaxRoutes int `json:"maxRoutes,omitempty"`
}

// Validate checks the request.
func (r Request) Validate() error {
	if r.Lat < -90 || r.Lat > 90 || r.Lon < -180 || r.Lon > 180 {
		return errors.New("coordinates out of range")
	}
	if err := r.Dog.Validate(); err != nil {
		return err
	}
	return nil
}

// Result is a complete walk recommendation.
type Result struct {
	// Windows are walk time windows, best comfort first.
	Windows []safety.Window `json:"windows"`

	// Routes are the top-K routed destinations in ranking order.
	Routes []routing.Candidate `json:"routes"`

	// WindowSource reports which path produced the windows.
	WindowSource WindowSource `json:"windowSource"`

	// RadiusM is the search radius actually used.
	RadiusM int `json:"radiusM"`

	// OneWayMinutes is the suggested one-way walk duration for the dog
	// under current conditions.
	OneWayMinutes int `json:"oneWayMinutes"`

	// Conditions summarizes the forecast hour nearest to now.
	Conditions *CurrentConditions `json:"conditions,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// WindowSource identifies how the windows were produced.
type WindowSource string

const (
	// WindowSourceExtractor means the deterministic run extraction.
	WindowSourceExtractor WindowSource = "extractor"

	// WindowSourceAdvisor means the external advisor's selection.
	WindowSourceAdvisor WindowSource = "advisor"

	// WindowSourceFallback means the advisor was unavailable and the
	// fixed default windows were substituted.
	WindowSourceFallback WindowSource = "fallback"
)

// CurrentConditions is a display summary of the nearest forecast hour.
type CurrentConditions struct {
	TemperatureC *float64          `json:"temperatureC,omitempty"`
	HumidityPct  *float64          `json:"humidityPct,omitempty"`
	WindMps      *float64          `json:"windMps,omitempty"`
	Condition    weather.Condition `json:"condition"`
}
