package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawroute/pawroute/internal/dog"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL settings repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves settings by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Settings, error) {
	query := `
		SELECT
			user_id, dog_name, dog_breed, dog_size, dog_age_years, dog_weight_kg,
			home_address, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var (
		id          string
		dogName     string
		dogBreed    string
		dogSize     string
		dogAgeYears float64
		dogWeightKg float64
		homeAddress string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&id,
		&dogName,
		&dogBreed,
		&dogSize,
		&dogAgeYears,
		&dogWeightKg,
		&homeAddress,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	return &Settings{
		UserID:   id,
		DogName:  dogName,
		DogBreed: dogBreed,
		Dog: dog.Profile{
			Size:     dog.SizeClass(dogSize),
			AgeYears: dogAgeYears,
			WeightKg: dogWeightKg,
		},
		HomeAddress: homeAddress,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Upsert creates or replaces settings for a user.
func (r *PostgresRepository) Upsert(ctx context.Context, settings *Settings) error {
	query := `
		INSERT INTO user_settings (
			user_id, dog_name, dog_breed, dog_size, dog_age_years, dog_weight_kg,
			home_address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			dog_name = EXCLUDED.dog_name,
			dog_breed = EXCLUDED.dog_breed,
			dog_size = EXCLUDED.dog_size,
			dog_age_years = EXCLUDED.dog_age_years,
			dog_weight_kg = EXCLUDED.dog_weight_kg,
			home_address = EXCLUDED.home_address,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		settings.UserID,
		settings.DogName,
		settings.DogBreed,
		string(settings.Dog.Size),
		settings.Dog.AgeYears,
		settings.Dog.WeightKg,
		settings.HomeAddress,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	return err
}

// Delete removes a user's settings.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_settings WHERE user_id = $1`, userID)
	return err
}
