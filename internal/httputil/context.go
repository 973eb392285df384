package httputil

import (
	"context"
	"net/http"

	"parley/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity attaches the verified caller identity to the request context.
func WithIdentity(r *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, claims)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the caller identity from the request context.
// Returns nil for anonymous requests.
func GetIdentity(r *http.Request) *models.Claims {
	claims, _ := r.Context().Value(identityKey).(*models.Claims)
	return claims
}
