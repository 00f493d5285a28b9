// Package plan persists saved walk plans, recommendation logs, and the
// coupons local shops issue against completed walks.
package plan

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/pkg/polyline"
)

// Repository errors.
var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrLogNotFound    = errors.New("recommendation log not found")
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponRedeemed = errors.New("coupon already redeemed")
)

// ModelVersion tags recommendation logs with the scoring pipeline that
// produced them, so later analysis can separate versions.
const ModelVersion = "v1"

// Plan is a walk plan the user chose to keep: where from, where to, the
// route shape, and the windows it was planned for.
type Plan struct {
	ID          string
	UserID      string
	Origin      polyline.Point
	Destination polyline.Point
	Polyline    string
	Windows     []safety.Window
	Score       int
	CreatedAt   time.Time
}

// RecommendationLog is an append-only record of one recommendation run:
// the request parameters and what came back, stored as raw JSON.
type RecommendationLog struct {
	ID           string
	UserID       string
	Origin       *polyline.Point
	Params       json.RawMessage
	Result       json.RawMessage
	Routes       json.RawMessage
	ModelVersion string
	CreatedAt    time.Time
}

// Coupon is a single-use reward issued against a saved plan.
type Coupon struct {
	ID         string
	PlanID     string
	UserID     string
	Code       string
	IssuedAt   time.Time
	RedeemedAt *time.Time
}

// Payload is the string encoded into the coupon QR code.
func (c Coupon) Payload() string {
	return "coupon:" + c.PlanID + ":" + c.Code
}

// Stats summarizes stored plans.
type Stats struct {
	Plans int
}
