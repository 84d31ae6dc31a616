package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/migraplan/portal-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

const uniqueViolation = "23505"

func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	query := `INSERT INTO profiles (id, email, username, role, active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  RETURNING id, email, username, role, active, created_at, updated_at`

	var saved model.Profile
	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.Email, profile.Username, profile.Role, profile.Active,
	).Scan(
		&saved.ID, &saved.Email, &saved.Username, &saved.Role, &saved.Active,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Profile{}, model.NewError(model.KindDuplicateUsername,
				fmt.Sprintf("username %q is already taken, use a different email", profile.Username))
		}
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return saved, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	query := `SELECT id, email, username, role, active, created_at, updated_at
			  FROM profiles WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.Email, &profile.Username, &profile.Role, &profile.Active,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return profile, nil
}
