package services

import (
	"context"

	"parley/internal/domain/models"
)

// UserService resolves and refreshes user accounts from verified token
// identities.
type UserService interface {
	// EnsureUser upserts the account for a verified identity, touching
	// last_signed_in, and returns the stored record. Without a reachable
	// store it returns a record assembled from the claims alone.
	EnsureUser(ctx context.Context, claims *models.Claims) (*models.User, error)
}
