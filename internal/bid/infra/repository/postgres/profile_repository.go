package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements domain.ProfileRepository for PostgreSQL.
// Profiles are owned by the identity collaborator, this repo only reads them.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `
        SELECT id, role, location, is_verified, experience_years, categories
        FROM profiles
        WHERE id = $1
    `
	profile := &domain.Profile{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Role,
		&profile.Location,
		&profile.IsVerified,
		&profile.ExperienceYears,
		&profile.Categories,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
