package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pawroute/pawroute/internal/api/models"
	"github.com/pawroute/pawroute/internal/api/response"
	"github.com/pawroute/pawroute/internal/plan"
	"github.com/pawroute/pawroute/internal/safety"
	"github.com/pawroute/pawroute/pkg/polyline"
)

// PlanHandler handles saved plans, recommendation history, and coupons.
type PlanHandler struct {
	plans *plan.Service
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(plans *plan.Service) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// ListPlans handles GET /v1/me/plans - list saved plans, newest first.
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)

	plans, err := h.plans.List(r.Context(), GetUserID(r.Context()), limit)
	if err != nil {
		response.InternalError(w, r, "could not list plans")
		return
	}

	items := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		items = append(items, toAPIPlan(p))
	}
	response.JSON(w, r, http.StatusOK, models.PlanList{Items: items})
}

// CreatePlan handles POST /v1/me/plans - save a walk plan.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var input models.PlanCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	windows := make([]safety.Window, 0, len(input.Windows))
	for _, win := range input.Windows {
		windows = append(windows, safety.Window{
			Start:        win.Start.Time(),
			End:          win.End.Time(),
			ComfortScore: win.ComfortScore,
			Label:        win.Label,
			Reason:       win.Reason,
		})
	}

	p, err := h.plans.Save(r.Context(), GetUserID(r.Context()), plan.SaveInput{
		Origin:      polyline.Point{Lat: input.Origin.Lat, Lon: input.Origin.Lon},
		Destination: polyline.Point{Lat: input.Destination.Lat, Lon: input.Destination.Lon},
		Polyline:    input.Polyline,
		Windows:     windows,
		Score:       input.Score,
	})
	if err != nil {
		if errors.Is(err, plan.ErrEmptyPolyline) {
			response.BadRequest(w, r, "polyline is required", []models.FieldError{
				{Field: "polyline", Message: "must not be empty"},
			})
			return
		}
		response.InternalError(w, r, "could not save plan")
		return
	}

	location := fmt.Sprintf("/v1/me/plans/%s", p.ID)
	response.Created(w, r, location, toAPIPlan(p))
}

// GetPlan handles GET /v1/me/plans/{planId} - get a saved plan.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planId")

	p, err := h.plans.Get(r.Context(), GetUserID(r.Context()), planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			response.NotFound(w, r, "plan not found")
			return
		}
		response.InternalError(w, r, "could not load plan")
		return
	}
	response.JSON(w, r, http.StatusOK, toAPIPlan(p))
}

// IssueCoupon handles POST /v1/me/plans/{planId}/coupons - mint a
// coupon for a saved plan.
func (h *PlanHandler) IssueCoupon(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planId")

	c, err := h.plans.IssueCoupon(r.Context(), GetUserID(r.Context()), planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			response.NotFound(w, r, "plan not found")
			return
		}
		response.InternalError(w, r, "could not issue coupon")
		return
	}
	response.JSON(w, r, http.StatusCreated, toAPICoupon(c))
}

// RedeemCoupon handles POST /v1/coupons/{code}:redeem - redeem a coupon.
// Coupons redeem at most once; a second attempt conflicts.
func (h *PlanHandler) RedeemCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	c, err := h.plans.RedeemCoupon(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrCouponNotFound):
			response.NotFound(w, r, "coupon not found")
		case errors.Is(err, plan.ErrCouponRedeemed):
			response.Conflict(w, r, "coupon has already been redeemed")
		default:
			response.InternalError(w, r, "could not redeem coupon")
		}
		return
	}
	response.JSON(w, r, http.StatusOK, toAPICoupon(c))
}

// ListRecommendations handles GET /v1/me/recommendations - list logged
// recommendation runs, newest first.
func (h *PlanHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)

	logs, err := h.plans.ListRecommendations(r.Context(), GetUserID(r.Context()), limit)
	if err != nil {
		response.InternalError(w, r, "could not list recommendations")
		return
	}

	items := make([]models.RecommendationLogEntry, 0, len(logs))
	for _, l := range logs {
		items = append(items, toAPILogEntry(l))
	}
	response.JSON(w, r, http.StatusOK, models.RecommendationLogList{Items: items})
}

// GetRecommendation handles GET /v1/me/recommendations/{logId}.
func (h *PlanHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	logID := chi.URLParam(r, "logId")

	l, err := h.plans.GetRecommendation(r.Context(), GetUserID(r.Context()), logID)
	if err != nil {
		if errors.Is(err, plan.ErrLogNotFound) {
			response.NotFound(w, r, "recommendation not found")
			return
		}
		response.InternalError(w, r, "could not load recommendation")
		return
	}
	response.JSON(w, r, http.StatusOK, toAPILogEntry(l))
}

func queryLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

func toAPIPlan(p *plan.Plan) models.Plan {
	windows := make([]models.WalkWindow, 0, len(p.Windows))
	for _, win := range p.Windows {
		windows = append(windows, models.WalkWindow{
			Start:        models.Timestamp(win.Start),
			End:          models.Timestamp(win.End),
			ComfortScore: win.ComfortScore,
			Label:        win.Label,
			Reason:       win.Reason,
		})
	}

	return models.Plan{
		ID:          p.ID,
		Origin:      models.Point{Lat: p.Origin.Lat, Lon: p.Origin.Lon},
		Destination: models.Point{Lat: p.Destination.Lat, Lon: p.Destination.Lon},
		Polyline:    p.Polyline,
		Windows:     windows,
		Score:       p.Score,
		CreatedAt:   models.Timestamp(p.CreatedAt),
	}
}

func toAPICoupon(c *plan.Coupon) models.Coupon {
	coupon := models.Coupon{
		ID:       c.ID,
		PlanID:   c.PlanID,
		Code:     c.Code,
		Payload:  c.Payload(),
		IssuedAt: models.Timestamp(c.IssuedAt),
	}
	if c.RedeemedAt != nil {
		ts := models.Timestamp(*c.RedeemedAt)
		coupon.RedeemedAt = &ts
	}
	return coupon
}

func toAPILogEntry(l *plan.RecommendationLog) models.RecommendationLogEntry {
	entry := models.RecommendationLogEntry{
		ID:           l.ID,
		ModelVersion: l.ModelVersion,
		CreatedAt:    models.Timestamp(l.CreatedAt),
	}
	if l.Origin != nil {
		entry.Origin = &models.Point{Lat: l.Origin.Lat, Lon: l.Origin.Lon}
	}
	if len(l.Params) > 0 {
		_ = json.Unmarshal(l.Params, &entry.Params)
	}
	if len(l.Result) > 0 {
		_ = json.Unmarshal(l.Result, &entry.Windows)
	}
	return entry
}
