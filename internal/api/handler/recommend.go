package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pawroute/pawroute/internal/api/models"
	"github.com/pawroute/pawroute/internal/api/response"
	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/geocode"
	"github.com/pawroute/pawroute/internal/plan"
	"github.com/pawroute/pawroute/internal/recommend"
	"github.com/pawroute/pawroute/internal/user"
	"github.com/pawroute/pawroute/internal/weather"
)

// Recommender produces walk recommendations. The *recommend.Coordinator
// type satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// RecommendHandler handles recommendation compute.
type RecommendHandler struct {
	recommender Recommender
	geocoder    *geocode.Service
	settings    *user.Service
	plans       *plan.Service
}

// NewRecommendHandler creates a new RecommendHandler. The geocoder,
// settings, and plans services are optional: without a geocoder address
// requests fail, without settings the dog profile is required in the
// request, and without plans runs are not logged.
func NewRecommendHandler(recommender Recommender, geocoder *geocode.Service, settings *user.Service, plans *plan.Service) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
		geocoder:    geocoder,
		settings:    settings,
		plans:       plans,
	}
}

// Compute handles POST /v1/recommendations:compute - run the full
// recommendation pipeline.
func (h *RecommendHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var input models.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	origin, ok := h.resolveOrigin(w, r, &input)
	if !ok {
		return
	}

	profile, ok := h.resolveDog(w, r, &input)
	if !ok {
		return
	}

	req := recommend.Request{
		Lat:       origin.Lat,
		Lon:       origin.Lon,
		Dog:       profile,
		RadiusM:   input.RadiusM,
		MaxRoutes: input.MaxRoutes,
	}

	result, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrInvalidRequest):
			response.BadRequest(w, r, err.Error(), nil)
		case errors.Is(err, recommend.ErrNoWeatherData),
			errors.Is(err, weather.ErrProviderUnavailable),
			errors.Is(err, weather.ErrNoData):
			response.ServiceUnavailable(w, r, "weather data unavailable for this location")
		default:
			response.ServiceUnavailable(w, r, "recommendation could not be computed")
		}
		return
	}

	resp := toAPIRecommendation(origin, result)

	if h.plans != nil {
		resp.LogID = h.plans.LogRecommendation(r.Context(), GetUserID(r.Context()), req, result)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// resolveOrigin picks coordinates from the request, geocoding the
// address when no explicit origin is given.
func (h *RecommendHandler) resolveOrigin(w http.ResponseWriter, r *http.Request, input *models.RecommendRequest) (models.Point, bool) {
	if input.Origin != nil {
		return *input.Origin, true
	}

	if strings.TrimSpace(input.Address) == "" {
		response.BadRequest(w, r, "origin or address is required", []models.FieldError{
			{Field: "origin", Message: "set origin coordinates or an address"},
		})
		return models.Point{}, false
	}

	if h.geocoder == nil {
		response.ServiceUnavailable(w, r, "address resolution is not available")
		return models.Point{}, false
	}

	loc, err := h.geocoder.Resolve(r.Context(), input.Address)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			response.BadRequest(w, r, "address could not be resolved", []models.FieldError{
				{Field: "address", Message: "no match found"},
			})
		} else {
			response.ServiceUnavailable(w, r, "geocoding provider unavailable")
		}
		return models.Point{}, false
	}

	return models.Point{Lat: loc.Lat, Lon: loc.Lon}, true
}

// resolveDog picks the dog profile from the request, falling back to the
// caller's saved settings.
func (h *RecommendHandler) resolveDog(w http.ResponseWriter, r *http.Request, input *models.RecommendRequest) (dog.Profile, bool) {
	if input.Dog != nil {
		return dog.Profile{
			Size:     dog.SizeClass(input.Dog.Size),
			AgeYears: input.Dog.AgeYears,
			WeightKg: input.Dog.WeightKg,
		}, true
	}

	if h.settings == nil {
		response.BadRequest(w, r, "dog profile is required", []models.FieldError{
			{Field: "dog", Message: "must be set"},
		})
		return dog.Profile{}, false
	}

	settings, err := h.settings.Get(r.Context(), GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, r, "could not load settings")
		return dog.Profile{}, false
	}
	return settings.Dog, true
}

func toAPIRecommendation(origin models.Point, result *recommend.Result) models.RecommendResponse {
	windows := make([]models.WalkWindow, 0, len(result.Windows))
	for _, win := range result.Windows {
		windows = append(windows, models.WalkWindow{
			Start:        models.Timestamp(win.Start),
			End:          models.Timestamp(win.End),
			ComfortScore: win.ComfortScore,
			Label:        win.Label,
			Reason:       win.Reason,
		})
	}

	routes := make([]models.WalkRoute, 0, len(result.Routes))
	for _, rt := range result.Routes {
		routes = append(routes, models.WalkRoute{
			Name:            rt.POI.Name,
			Kind:            string(rt.POI.Kind),
			Destination:     models.Point{Lat: rt.POI.Lat, Lon: rt.POI.Lon},
			DistanceM:       rt.DistanceM,
			OneWayMinutes:   rt.OneWayMinutes,
			Score:           rt.Score,
			Reason:          rt.Reason,
			Polyline:        rt.Polyline,
			EnvironmentTags: rt.POI.EnvironmentTags,
			PetFriendly:     rt.POI.PetFriendly,
		})
	}

	resp := models.RecommendResponse{
		Origin:        origin,
		Windows:       windows,
		Routes:        routes,
		WindowSource:  string(result.WindowSource),
		RadiusM:       result.RadiusM,
		OneWayMinutes: result.OneWayMinutes,
		GeneratedAt:   models.Timestamp(result.GeneratedAt),
	}

	if result.Conditions != nil {
		resp.Conditions = &models.CurrentConditions{
			TemperatureC: result.Conditions.TemperatureC,
			HumidityPct:  result.Conditions.HumidityPct,
			WindMps:      result.Conditions.WindMps,
			Condition:    string(result.Conditions.Condition),
		}
	}

	return resp
}
