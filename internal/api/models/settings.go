package models

// Settings is a user's saved preferences.
type Settings struct {
	UserID      string    `json:"userId"`
	DogName     string    `json:"dogName,omitempty"`
	DogBreed    string    `json:"dogBreed,omitempty"`
	DogSize     string    `json:"dogSize"`
	DogAgeYears float64   `json:"dogAgeYears"`
	DogWeightKg float64   `json:"dogWeightKg"`
	HomeAddress string    `json:"homeAddress,omitempty"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// SettingsInput is a partial settings update. Nil fields are unchanged.
type SettingsInput struct {
	DogName     *string  `json:"dogName,omitempty"`
	DogBreed    *string  `json:"dogBreed,omitempty"`
	DogSize     *string  `json:"dogSize,omitempty"`
	DogAgeYears *float64 `json:"dogAgeYears,omitempty"`
	DogWeightKg *float64 `json:"dogWeightKg,omitempty"`
	HomeAddress *string  `json:"homeAddress,omitempty"`
}

// Me is the caller's account summary.
type Me struct {
	UserID string `json:"userId"`
}
