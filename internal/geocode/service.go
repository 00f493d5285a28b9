package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for geocoding backends.
type Provider interface {
	// Search resolves one query string, returning ErrNotFound when the
	// provider has no match.
	Search(ctx context.Context, query string) (*Location, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// QueryDelay spaces successive provider queries within one resolve,
	// per the public Nominatim usage policy (default: 1 second).
	QueryDelay time.Duration
}

// Service resolves addresses with normalization and progressive
// truncation retries.
type Service struct {
	provider   Provider
	logger     zerolog.Logger
	queryDelay time.Duration
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	delay := cfg.QueryDelay
	if delay == 0 {
		delay = time.Second
	}

	return &Service{
		provider:   cfg.Provider,
		logger:     cfg.Logger,
		queryDelay: delay,
	}
}

// Resolve geocodes an address. The raw form is tried first, then the
// normalized form, then progressively truncated variants (block numbers
// stripped from the right) until one resolves.
func (s *Service) Resolve(ctx context.Context, address string) (*Location, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}

	normalized := NormalizeJP(address)

	queries := []string{address}
	if normalized != address {
		queries = append(queries, normalized)
	}
	queries = append(queries, truncations(normalized)...)

	for i, q := range queries {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.queryDelay):
			}
		}

		loc, err := s.provider.Search(ctx, q)
		if err == nil {
			return loc, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}

		s.logger.Error().Err(err).Str("provider", s.provider.Name()).
			Msg("geocoding query failed")
		return nil, ErrProviderUnavailable
	}

	return nil, ErrNotFound
}
