package handler

import (
	"net/http"

	"github.com/pawroute/pawroute/internal/api/models"
	"github.com/pawroute/pawroute/internal/api/response"
	"github.com/pawroute/pawroute/internal/auth"
)

// AuthHandler handles token issuance.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueAnonymous handles POST /v1/auth/anonymous - mint a fresh
// anonymous identity. No credentials; clients call this once and keep
// the token.
func (h *AuthHandler) IssueAnonymous(w http.ResponseWriter, r *http.Request) {
	identity, err := h.authService.IssueAnonymous()
	if err != nil {
		response.InternalError(w, r, "could not issue identity")
		return
	}

	response.JSON(w, r, http.StatusCreated, models.TokenResponse{
		UserID:    identity.UserID,
		Token:     identity.Token,
		ExpiresAt: models.Timestamp(identity.ExpiresAt),
	})
}
