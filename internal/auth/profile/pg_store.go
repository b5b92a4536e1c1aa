package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique-constraint conflict.
const uniqueViolation = "23505"

// PGStore is the canonical Postgres-backed profile store.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// GetByID returns the live profile for id. Soft-deleted rows are invisible.
func (s *PGStore) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, avatar_url, provider, created_at, updated_at
		FROM users
		WHERE id = $1
		  AND deleted_at IS NULL
	`, id).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.AvatarURL,
		&p.Provider,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: get by id: %w", err)
	}
	return &p, nil
}

// Create inserts a new profile row. Conflicts on id or email map to
// ErrDuplicate.
func (s *PGStore) Create(ctx context.Context, p *Profile) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, avatar_url, provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`,
		p.ID,
		p.Email,
		p.Name,
		p.AvatarURL,
		p.Provider,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("profile: create: %w", err)
	}
	return nil
}

// Update applies the given edits and bumps updated_at.
func (s *PGStore) Update(ctx context.Context, id string, upd Update) (*Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name       = COALESCE($2, name),
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
		RETURNING id, email, name, avatar_url, provider, created_at, updated_at
	`,
		id,
		upd.Name,
		upd.AvatarURL,
	).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.AvatarURL,
		&p.Provider,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: update: %w", err)
	}
	return &p, nil
}

// SoftDelete marks the row deleted without removing it.
func (s *PGStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET deleted_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("profile: soft delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
