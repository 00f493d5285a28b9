package safety

import (
	"math"

	"github.com/pawroute/pawroute/internal/weather"
)

const (
	// minSafeWindMps is the minimum wind required for heat dissipation.
	minSafeWindMps = 1.0

	// daytimeSurfaceBumpC approximates pavement heat during sun hours.
	daytimeSurfaceBumpC = 4.0

	daytimeStartHour = 9
	daytimeEndHour   = 16
)

// ApparentSurfaceTempC returns the air temperature adjusted upward during
// daytime hours ([9,16] local) to approximate ground heat.
func ApparentSurfaceTempC(tempC float64, local int) float64 {
	if local >= daytimeStartHour && local <= daytimeEndHour {
		return tempC + daytimeSurfaceBumpC
	}
	return tempC
}

// IsSafe reports whether the sample is walkable at the given threshold.
// Samples missing temperature or wind are never safe.
func IsSafe(s weather.HourlySample, thresholdC float64) bool {
	if !s.HasThermals() {
		return false
	}
	apparent := ApparentSurfaceTempC(*s.TemperatureC, s.Time.Hour())
	return apparent <= thresholdC && *s.WindMps >= minSafeWindMps
}

// Score rates one hour's walking conditions on [0,100]. Deterministic;
// changing any constant here invalidates recorded recommendation scores.
func Score(s weather.HourlySample, thresholdC float64) int {
	if s.TemperatureC == nil {
		return 0
	}

	apparent := ApparentSurfaceTempC(*s.TemperatureC, s.Time.Hour())
	score := 50 + int(math.Round((thresholdC-apparent)*6))

	if s.WindMps != nil {
		switch {
		case *s.WindMps < 0.5:
			score -= 5
		case *s.WindMps > 6:
			score -= 3
		}
	}

	if s.HumidityPct != nil && *s.HumidityPct > 75 {
		score -= int(math.Round((*s.HumidityPct - 75) / 2))
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// aggregateScore is the rounded mean of the member hourly scores.
func aggregateScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
