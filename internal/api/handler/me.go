package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pawroute/pawroute/internal/api/models"
	"github.com/pawroute/pawroute/internal/api/response"
	"github.com/pawroute/pawroute/internal/dog"
	"github.com/pawroute/pawroute/internal/user"
)

// MeHandler handles user account and settings endpoints.
type MeHandler struct {
	settings *user.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(settings *user.Service) *MeHandler {
	return &MeHandler{settings: settings}
}

// GetMe handles GET /v1/me - get current account summary.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Me{UserID: GetUserID(r.Context())})
}

// GetSettings handles GET /v1/me/settings - get saved settings.
// Users who never saved anything get defaults.
func (h *MeHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context(), GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, r, "could not load settings")
		return
	}
	response.JSON(w, r, http.StatusOK, toAPISettings(settings))
}

// UpdateSettings handles PUT /v1/me/settings - partial settings update.
func (h *MeHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input models.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	update := &user.SettingsInput{
		DogName:     input.DogName,
		DogBreed:    input.DogBreed,
		DogAgeYears: input.DogAgeYears,
		DogWeightKg: input.DogWeightKg,
		HomeAddress: input.HomeAddress,
	}
	if input.DogSize != nil {
		size := dog.SizeClass(*input.DogSize)
		update.DogSize = &size
	}

	settings, err := h.settings.Update(r.Context(), GetUserID(r.Context()), update)
	if err != nil {
		switch {
		case errors.Is(err, dog.ErrInvalidSize):
			response.BadRequest(w, r, "invalid dog size", []models.FieldError{
				{Field: "dogSize", Message: "must be one of small, medium, large"},
			})
		case errors.Is(err, dog.ErrInvalidAge):
			response.BadRequest(w, r, "invalid dog age", []models.FieldError{
				{Field: "dogAgeYears", Message: "must be non-negative"},
			})
		case errors.Is(err, dog.ErrInvalidWeight):
			response.BadRequest(w, r, "invalid dog weight", []models.FieldError{
				{Field: "dogWeightKg", Message: "must be non-negative"},
			})
		default:
			response.InternalError(w, r, "could not save settings")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toAPISettings(settings))
}

// DeleteSettings handles DELETE /v1/me/settings - remove saved settings.
func (h *MeHandler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), GetUserID(r.Context())); err != nil {
		response.InternalError(w, r, "could not delete settings")
		return
	}
	response.NoContent(w, r)
}

func toAPISettings(s *user.Settings) models.Settings {
	return models.Settings{
		UserID:      s.UserID,
		DogName:     s.DogName,
		DogBreed:    s.DogBreed,
		DogSize:     string(s.Dog.Size),
		DogAgeYears: s.Dog.AgeYears,
		DogWeightKg: s.Dog.WeightKg,
		HomeAddress: s.HomeAddress,
		UpdatedAt:   models.Timestamp(s.UpdatedAt),
	}
}
