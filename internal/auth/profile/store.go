package profile

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no live (non-deleted) profile exists for the id.
	ErrNotFound = errors.New("profile not found")

	// ErrDuplicate means a row with the same id or email already exists.
	ErrDuplicate = errors.New("profile already exists")
)

// Store persists profiles. Implementations must report unique-constraint
// conflicts as ErrDuplicate so the reconciler can fall back to a lookup.
type Store interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, id string, upd Update) (*Profile, error)
	SoftDelete(ctx context.Context, id string) error
}

// Update carries the editable profile fields. Nil fields are left unchanged.
type Update struct {
	Name      *string
	AvatarURL *string
}
