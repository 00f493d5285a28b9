package user

import (
	"context"
	"errors"
	"time"

	"github.com/pawroute/pawroute/internal/dog"
)

// SettingsInput is a partial update to a user's settings. Nil fields are
// left unchanged.
type SettingsInput struct {
	DogName     *string
	DogBreed    *string
	DogSize     *dog.SizeClass
	DogAgeYears *float64
	DogWeightKg *float64
	HomeAddress *string
}

// Service provides settings operations.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a user's settings. A user who has never saved anything
// gets defaults rather than a not-found error, so clients can always
// render the settings screen.
func (s *Service) Get(ctx context.Context, userID string) (*Settings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return DefaultSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

// Update applies a partial update and persists the result.
func (s *Service) Update(ctx context.Context, userID string, input *SettingsInput) (*Settings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, err
		}
		settings = DefaultSettings(userID)
	}

	if input.DogName != nil {
		settings.DogName = *input.DogName
	}
	if input.DogBreed != nil {
		settings.DogBreed = *input.DogBreed
	}
	if input.DogSize != nil {
		settings.Dog.Size = *input.DogSize
	}
	if input.DogAgeYears != nil {
		settings.Dog.AgeYears = *input.DogAgeYears
	}
	if input.DogWeightKg != nil {
		settings.Dog.WeightKg = *input.DogWeightKg
	}
	if input.HomeAddress != nil {
		settings.HomeAddress = *input.HomeAddress
	}

	if err := settings.Dog.Validate(); err != nil {
		return nil, err
	}

	settings.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Delete removes a user's settings.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
