package models

// DogInput describes the dog a walk is planned for.
type DogInput struct {
	Size     string  `json:"size"`
	AgeYears float64 `json:"ageYears"`
	WeightKg float64 `json:"weightKg"`
}

// RecommendRequest asks for walk recommendations. Either Origin or
// Address must be set; when both are present Origin wins. A missing Dog
// falls back to the caller's saved settings.
type RecommendRequest struct {
	Origin    *Point    `json:"origin,omitempty"`
	Address   string    `json:"address,omitempty"`
	Dog       *DogInput `json:"dog,omitempty"`
	RadiusM   int       `json:"radiusM,omitempty"`
	MaxRoutes int       `json:"maxRoutes,omitempty"`
}

// WalkWindow is a recommended walk time window.
type WalkWindow struct {
	Start        Timestamp `json:"start"`
	End          Timestamp `json:"end"`
	ComfortScore int       `json:"comfortScore"`
	Label        string    `json:"label,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// WalkRoute is one routed destination.
type WalkRoute struct {
	Name            string   `json:"name"`
	Kind            string   `json:"kind"`
	Destination     Point    `json:"destination"`
	DistanceM       int      `json:"distanceM"`
	OneWayMinutes   int      `json:"oneWayMinutes"`
	Score           int      `json:"score"`
	Reason          string   `json:"reason,omitempty"`
	Polyline        string   `json:"polyline,omitempty"`
	EnvironmentTags []string `json:"environmentTags,omitempty"`
	PetFriendly     bool     `json:"petFriendly"`
}

// CurrentConditions is a display summary of the nearest forecast hour.
type CurrentConditions struct {
	TemperatureC *float64 `json:"temperatureC,omitempty"`
	HumidityPct  *float64 `json:"humidityPct,omitempty"`
	WindMps      *float64 `json:"windMps,omitempty"`
	Condition    string   `json:"condition"`
}

// RecommendResponse is a complete walk recommendation.
type RecommendResponse struct {
	Origin        Point              `json:"origin"`
	Windows       []WalkWindow       `json:"windows"`
	Routes        []WalkRoute        `json:"routes"`
	WindowSource  string             `json:"windowSource"`
	RadiusM       int                `json:"radiusM"`
	OneWayMinutes int                `json:"oneWayMinutes"`
	Conditions    *CurrentConditions `json:"conditions,omitempty"`
	GeneratedAt   Timestamp          `json:"generatedAt"`
	LogID         string             `json:"logId,omitempty"`
}
