package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Identity is an issued anonymous identity.
type Identity struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWT    *JWTService
	Logger zerolog.Logger
}

// Service issues anonymous identities and validates request tokens.
type Service struct {
	jwt    *JWTService
	logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{jwt: cfg.JWT, logger: cfg.Logger}
}

// IssueAnonymous mints a fresh anonymous identity.
func (s *Service) IssueAnonymous() (*Identity, error) {
	userID := uuid.NewString()

	token, expiresAt, err := s.jwt.Issue(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("issued anonymous identity")

	return &Identity{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken validates a bearer token and returns the user ID.
func (s *Service) ValidateToken(token string) (string, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
