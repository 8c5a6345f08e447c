package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mosaiq/gallery/internal/models"
)

// ErrProfileNotFound is returned when no profile row exists for the given ID.
var ErrProfileNotFound = errors.New("profile not found")

// ProfilesRepository handles data access for the profiles table. Profiles are owned
// by the auth provider; this table only mirrors id and display name for attribution.
type ProfilesRepository struct {
	db *pgxpool.Pool
}

// NewProfilesRepository creates a new profiles repository.
func NewProfilesRepository(db *pgxpool.Pool) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

// Get returns the profile with the given ID. Returns ErrProfileNotFound when no row exists.
func (r *ProfilesRepository) Get(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	var profile models.Profile

	err := r.db.QueryRow(ctx,
		`SELECT id, display_name FROM profiles WHERE id = $1`, id,
	).Scan(&profile.ID, &profile.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrProfileNotFound
		}

		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// Upsert creates or updates the display-name mirror row for an auth-provider user.
// Called after sign-in so gallery attribution stays current.
func (r *ProfilesRepository) Upsert(ctx context.Context, profile models.Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name`,
		profile.ID, profile.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("profile upsert: %w", err)
	}

	return nil
}
