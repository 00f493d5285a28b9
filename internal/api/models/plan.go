package models

// PlanCreateRequest saves a walk plan.
type PlanCreateRequest struct {
	Origin      Point        `json:"origin"`
	Destination Point        `json:"destination"`
	Polyline    string       `json:"polyline"`
	Windows     []WalkWindow `json:"windows,omitempty"`
	Score       int          `json:"score"`
}

// Plan is a saved walk plan.
type Plan struct {
	ID          string       `json:"id"`
	Origin      Point        `json:"origin"`
	Destination Point        `json:"destination"`
	Polyline    string       `json:"polyline"`
	Windows     []WalkWindow `json:"windows,omitempty"`
	Score       int          `json:"score"`
	CreatedAt   Timestamp    `json:"createdAt"`
}

// PlanList is a page of saved plans.
type PlanList struct {
	Items []Plan `json:"items"`
}

// Coupon is an issued coupon.
type Coupon struct {
	ID         string     `json:"id"`
	PlanID     string     `json:"planId"`
	Code       string     `json:"code"`
	Payload    string     `json:"payload"`
	IssuedAt   Timestamp  `json:"issuedAt"`
	RedeemedAt *Timestamp `json:"redeemedAt,omitempty"`
}

// RecommendationLogEntry is one logged recommendation run.
type RecommendationLogEntry struct {
	ID           string         `json:"id"`
	Origin       *Point         `json:"origin,omitempty"`
	Params       map[string]any `json:"params,omitempty"`
	Windows      []WalkWindow   `json:"windows,omitempty"`
	ModelVersion string         `json:"modelVersion"`
	CreatedAt    Timestamp      `json:"createdAt"`
}

// RecommendationLogList is a page of logged runs.
type RecommendationLogList struct {
	Items []RecommendationLogEntry `json:"items"`
}
