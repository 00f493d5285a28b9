// Package weather provides hourly forecast data for walk planning.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoData              = errors.New("no usable weather data for location")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// HourlySample is one normalized forecast hour. Numeric fields are pointers
// because providers routinely omit them; a nil field means "unknown" and is
// handled explicitly downstream instead of defaulting to zero.
type HourlySample struct {
	// Time is the local wall-clock hour at the queried location.
	Time time.Time

	TemperatureC *float64
	HumidityPct  *float64
	WindMps      *float64

	// SkyCode is the raw WMO weather code when the provider supplies one.
	SkyCode *int

	// Daytime reports whether the provider flagged this hour as daylight.
	Daytime *bool
}

// Condition returns the coarse sky condition for display purposes.
func (s HourlySample) Condition() Condition {
	if s.SkyCode == nil {
		return ConditionUnknown
	}
	return conditionFromWMO(*s.SkyCode)
}

// HasThermals reports whether the sample carries enough data for the
// safety predicate (temperature and wind).
func (s HourlySample) HasThermals() bool {
	return s.TemperatureC != nil && s.WindMps != nil
}

// Forecast is a time-ordered run of hourly samples for one location.
type Forecast struct {
	Lat       float64
	Lon       float64
	Timezone  string
	Hourly    []HourlySample
	FetchedAt time.Time
}

// Condition is a coarse, provider-independent sky condition.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionFog          Condition = "FOG"
	ConditionRain         Condition = "RAIN"
	ConditionSnow         Condition = "SNOW"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionUnknown      Condition = "UNKNOWN"
)

// conditionFromWMO buckets WMO weather interpretation codes.
func conditionFromWMO(code int) Condition {
	switch {
	case code >= 0 && code <= 2:
		return ConditionClear
	case code == 3:
		return ConditionClouds
	case code == 45 || code == 48:
		return ConditionFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95 && code <= 99:
		return ConditionThunderstorm
	default:
		return ConditionUnknown
	}
}
