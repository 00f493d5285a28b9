package models

// TokenResponse is returned when an anonymous identity is issued.
type TokenResponse struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt Timestamp `json:"expiresAt"`
}
