package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/profile-service/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, owner_id, email, age, first_name, last_name, phone`

func scanProfile(row pgx.Row) (*domain.ProfileRecord, error) {
	var rec domain.ProfileRecord
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Email,
		&rec.Age,
		&rec.FirstName,
		&rec.LastName,
		&rec.Phone,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByID retrieves a profile by its primary key.
// Returns domain.ErrProfileNotFound when no row matches.
func (r *ProfileRepository) GetByID(ctx context.Context, id int) (*domain.ProfileRecord, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	rec, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %d: %w", id, domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("query profile by id: %w", err)
	}
	return rec, nil
}

// GetByOwner retrieves a profile by owner user ID.
// Returns (nil, nil) when the owner has no profile yet; the service decides
// what that means.
func (r *ProfileRepository) GetByOwner(ctx context.Context, ownerID int) (*domain.ProfileRecord, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1`
	rec, err := scanProfile(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query profile by owner: %w", err)
	}
	return rec, nil
}

// Create inserts a new profile and returns its ID.
func (r *ProfileRepository) Create(ctx context.Context, ownerID int, email string, age int, firstName, lastName string) (int, error) {
	query := `INSERT INTO profiles (owner_id, email, age, first_name, last_name) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	if err := r.pool.QueryRow(ctx, query, ownerID, email, age, firstName, lastName).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert profile: %w", err)
	}
	return id, nil
}

// Update updates an existing profile.
// Returns true if a row was updated, false if the owner has no profile.
func (r *ProfileRepository) Update(ctx context.Context, ownerID int, firstName, lastName, phone string) (bool, error) {
	query := `UPDATE profiles SET first_name = $1, last_name = $2, phone = $3 WHERE owner_id = $4`
	result, err := r.pool.Exec(ctx, query, firstName, lastName, phone, ownerID)
	if err != nil {
		return false, fmt.Errorf("update profile: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ExistsForOwner checks whether the owner already has a profile.
func (r *ProfileRepository) ExistsForOwner(ctx context.Context, ownerID int) (bool, error) {
	var id int
	query := `SELECT id FROM profiles WHERE owner_id = $1`
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check profile exists: %w", err)
	}
	return true, nil
}
