package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
	"parley/internal/domain/services"
)

// UserService implements the UserService interface
type UserService struct {
	users       repositories.UserRepository
	ownerOpenID string
	logger      *slog.Logger
}

// NewUserService creates a new user service. ownerOpenID is the configured
// owner identity that is promoted to admin on sign-in.
func NewUserService(users repositories.UserRepository, ownerOpenID string, logger *slog.Logger) services.UserService {
	return &UserService{
		users:       users,
		ownerOpenID: ownerOpenID,
		logger:      logger,
	}
}

// EnsureUser upserts the account behind a verified identity and marks
// sign-in activity. When the store is degraded the caller still gets an
// identity assembled from the token, so authentication keeps working.
func (s *UserService) EnsureUser(ctx context.Context, claims *models.Claims) (*models.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing token subject", domain.ErrValidation)
	}

	now := time.Now()
	params := &repositories.UpsertUserParams{
		OpenID:       claims.Subject,
		Name:         optional(claims.Name),
		Email:        optional(claims.Email),
		LoginMethod:  optional(claims.LoginMethod),
		Role:         s.resolveRole(claims),
		LastSignedIn: &now,
	}

	user, err := s.users.Upsert(ctx, params)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Degraded store: the token is the only source of truth.
		role := models.RoleUser
		if r := s.resolveRole(claims); r != nil {
			role = *r
		}
		return &models.User{
			ID:          claims.UserID,
			OpenID:      claims.Subject,
			Name:        optional(claims.Name),
			Email:       optional(claims.Email),
			LoginMethod: optional(claims.LoginMethod),
			Role:        role,
		}, nil
	}

	s.logger.Info("user signed in",
		"id", user.ID,
		"open_id", user.OpenID,
		"role", user.Role,
	)

	return user, nil
}

// resolveRole returns the role to store: the token's role when supplied,
// admin for the configured owner identity, otherwise nil (keep existing).
func (s *UserService) resolveRole(claims *models.Claims) *string {
	if claims.Role != "" {
		role := claims.Role
		return &role
	}
	if s.ownerOpenID != "" && claims.Subject == s.ownerOpenID {
		role := models.RoleAdmin
		return &role
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
