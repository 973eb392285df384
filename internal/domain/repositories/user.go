package repositories

import (
	"context"
	"time"

	"parley/internal/domain/models"
)

// UpsertUserParams carries the fields written on sign-in. Nil pointer
// fields are left untouched on existing rows.
type UpsertUserParams struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	Role         *string
	LastSignedIn *time.Time
}

// UserRepository persists user accounts keyed by open_id.
type UserRepository interface {
	// GetByOpenID returns the user for the given auth subject, or
	// domain.ErrNotFound.
	GetByOpenID(ctx context.Context, openID string) (*models.User, error)

	// Upsert inserts a new user or refreshes the mutable fields of the
	// row matched by open_id. last_signed_in is touched even when no
	// other field changed. Degrades to a logged no-op without a store.
	Upsert(ctx context.Context, params *UpsertUserParams) (*models.User, error)
}
