// Package user provides per-user settings storage.
//
// Users are anonymous identities minted by the auth service, so a
// settings record holds only what the planner needs: the dog profile
// and an optional saved home address. Nothing here identifies a person.
package user

import (
	"time"

	"github.com/pawroute/pawroute/internal/dog"
)

// Settings represents a user's saved preferences.
type Settings struct {
	// UserID is the anonymous identity the settings belong to.
	UserID string

	// DogName is a display name for the dog. Optional.
	DogName string

	// DogBreed is free text, used only for display. Optional.
	DogBreed string

	// Dog is the profile driving safety thresholds and pacing.
	Dog dog.Profile

	// HomeAddress is the saved walk origin. Optional; clients may send
	// coordinates directly instead.
	HomeAddress string

	// CreatedAt is when the settings were first saved.
	CreatedAt time.Time

	// UpdatedAt is when the settings were last saved.
	UpdatedAt time.Time
}

// DefaultSettings returns settings for a user who has never saved any:
// a medium adult dog and no saved address.
func DefaultSettings(userID string) *Settings {
	now := time.Now()
	return &Settings{
		UserID: userID,
		Dog: dog.Profile{
			Size:     dog.SizeMedium,
			AgeYears: 3,
			WeightKg: 12,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
