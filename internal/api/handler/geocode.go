package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pawroute/pawroute/internal/api/models"
	"github.com/pawroute/pawroute/internal/api/response"
	"github.com/pawroute/pawroute/internal/geocode"
)

// GeocodeHandler handles address resolution.
type GeocodeHandler struct {
	geocoder *geocode.Service
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder *geocode.Service) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// Resolve handles POST /v1/geocode:resolve - resolve an address to
// coordinates.
func (h *GeocodeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var input models.GeocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if strings.TrimSpace(input.Address) == "" {
		response.BadRequest(w, r, "address is required", []models.FieldError{
			{Field: "address", Message: "must not be empty"},
		})
		return
	}

	loc, err := h.geocoder.Resolve(r.Context(), input.Address)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			response.NotFound(w, r, "address could not be resolved")
		case errors.Is(err, geocode.ErrEmptyAddress):
			response.BadRequest(w, r, "address is required", nil)
		default:
			response.ServiceUnavailable(w, r, "geocoding provider unavailable")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.GeocodeResponse{
		Lat:         loc.Lat,
		Lon:         loc.Lon,
		DisplayName: loc.DisplayName,
	})
}
