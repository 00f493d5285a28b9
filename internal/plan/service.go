package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pawroute/pawroute/internal/recommend"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/pkg/polyline"
)

// Service errors.
var (
	ErrEmptyPolyline = errors.New("plan has no route polyline")
)

// MaxListLimit caps how many items a single list call returns.
const MaxListLimit = 100

// SaveInput is the data needed to save a plan.
type SaveInput struct {
	Origin      polyline.Point
	Destination polyline.Point
	Polyline    string
	Windows     []safety.Window
	Score       int
}

// Service provides plan, log, and coupon operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new plan service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Save stores a walk plan for a user.
func (s *Service) Save(ctx context.Context, userID string, input SaveInput) (*Plan, error) {
	if input.Polyline == "" {
		return nil, ErrEmptyPolyline
	}

	p := &Plan{
		ID:          "pln_" + uuid.NewString(),
		UserID:      userID,
		Origin:      input.Origin,
		Destination: input.Destination,
		Polyline:    input.Polyline,
		Windows:     input.Windows,
		Score:       input.Score,
		CreatedAt:   s.now(),
	}

	if err := s.repo.CreatePlan(ctx, p); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("plan_id", p.ID).
		Int("score", p.Score).
		Msg("saved walk plan")

	return p, nil
}

// Get retrieves one of the user's plans.
func (s *Service) Get(ctx context.Context, userID, planID string) (*Plan, error) {
	return s.repo.GetPlan(ctx, userID, planID)
}

// List retrieves a user's plans, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Plan, error) {
	return s.repo.ListPlans(ctx, userID, ListOptions{Limit: clampLimit(limit)})
}

// Stats summarizes stored plans.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	count, err := s.repo.CountPlans(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Plans: count}, nil
}

// LogRecommendation appends a record of a recommendation run. Logging is
// best-effort bookkeeping: callers pass the request and result, and a
// failure here must never fail the recommendation itself, so errors are
// logged and swallowed.
func (s *Service) LogRecommendation(ctx context.Context, userID string, req recommend.Request, result *recommend.Result) string {
	params, err := json.Marshal(map[string]any{
		"lat":        req.Lat,
		"lon":        req.Lon,
		"dog_size":   req.Dog.Size,
		"dog_age":    req.Dog.AgeYears,
		"radius_m":   req.RadiusM,
		"max_routes": req.MaxRoutes,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("marshal recommendation params")
		return ""
	}

	windowsJSON, err := json.Marshal(result.Windows)
	if err != nil {
		s.logger.Warn().Err(err).Msg("marshal recommendation windows")
		return ""
	}
	routesJSON, err := json.Marshal(result.Routes)
	if err != nil {
		s.logger.Warn().Err(err).Msg("marshal recommendation routes")
		return ""
	}

	l := &RecommendationLog{
		ID:           "rec_" + uuid.NewString(),
		UserID:       userID,
		Origin:       &polyline.Point{Lat: req.Lat, Lon: req.Lon},
		Params:       params,
		Result:       windowsJSON,
		Routes:       routesJSON,
		ModelVersion: ModelVersion,
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateLog(ctx, l); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("store recommendation log")
		return ""
	}
	return l.ID
}

// GetRecommendation retrieves one of the user's recommendation logs.
func (s *Service) GetRecommendation(ctx context.Context, userID, logID string) (*RecommendationLog, error) {
	return s.repo.GetLog(ctx, userID, logID)
}

// ListRecommendations retrieves a user's recommendation logs, newest first.
func (s *Service) ListRecommendations(ctx context.Context, userID string, limit int) ([]*RecommendationLog, error) {
	return s.repo.ListLogs(ctx, userID, ListOptions{Limit: clampLimit(limit)})
}

// IssueCoupon mints a single-use coupon against one of the user's saved
// plans. The plan must exist and belong to the user.
func (s *Service) IssueCoupon(ctx context.Context, userID, planID string) (*Coupon, error) {
	if _, err := s.repo.GetPlan(ctx, userID, planID); err != nil {
		return nil, err
	}

	c := &Coupon{
		ID:       "cpn_" + uuid.NewString(),
		PlanID:   planID,
		UserID:   userID,
		Code:     uuid.NewString(),
		IssuedAt: s.now(),
	}

	if err := s.repo.CreateCoupon(ctx, c); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("plan_id", planID).
		Str("coupon_id", c.ID).
		Msg("issued coupon")

	return c, nil
}

// RedeemCoupon marks a coupon as used. A coupon redeems at most once.
func (s *Service) RedeemCoupon(ctx context.Context, code string) (*Coupon, error) {
	c, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c.RedeemedAt != nil {
		return nil, ErrCouponRedeemed
	}

	now := s.now()
	c.RedeemedAt = &now

	if err := s.repo.UpdateCoupon(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
