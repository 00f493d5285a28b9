package user

import (
	"context"
	"errors"
	"sync"
)

// Repository errors.
var (
	ErrSettingsNotFound = errors.New("settings not found")
)

// Repository defines the interface for settings persistence.
type Repository interface {
	// Get retrieves settings by user ID.
	Get(ctx context.Context, userID string) (*Settings, error)

	// Upsert creates or replaces settings for a user.
	Upsert(ctx context.Context, settings *Settings) error

	// Delete removes a user's settings.
	Delete(ctx context.Context, userID string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used in tests and when the API runs without a database.
type InMemoryRepository struct {
	mu       sync.RWMutex
	settings map[string]*Settings
}

// NewInMemoryRepository creates a new in-memory settings repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		settings: make(map[string]*Settings),
	}
}

// Get retrieves settings by user ID.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}

	// Return a copy to prevent mutation
	return copySettings(s), nil
}

// Upsert creates or replaces settings for a user.
func (r *InMemoryRepository) Upsert(_ context.Context, settings *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[settings.UserID] = copySettings(settings)
	return nil
}

// Delete removes a user's settings.
func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.settings, userID)
	return nil
}

func copySettings(s *Settings) *Settings {
	if s == nil {
		return nil
	}
	settingsCopy := *s
	return &settingsCopy
}
