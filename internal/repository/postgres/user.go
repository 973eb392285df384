package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface using PostgreSQL
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const userColumns = "id, open_id, name, email, login_method, role, created_at, updated_at, last_signed_in"

// GetByOpenID retrieves a user by their external auth subject
func (r *PostgresUserRepository) GetByOpenID(ctx context.Context, openID string) (*models.User, error) {
	if r.pool == nil {
		r.logger.Warn("cannot get user: store unavailable", "open_id", openID)
		return nil, fmt.Errorf("user %s: %w", openID, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE open_id = $1
	`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	var user models.User
	err := executor.QueryRow(ctx, query, openID).Scan(
		&user.ID,
		&user.OpenID,
		&user.Name,
		&user.Email,
		&user.LoginMethod,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastSignedIn,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", openID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Upsert inserts a user row or refreshes the mutable fields of the row
// matched by open_id. Nil fields keep the stored value; last_signed_in is
// touched either way so sign-in activity is always recorded.
func (r *PostgresUserRepository) Upsert(ctx context.Context, params *repositories.UpsertUserParams) (*models.User, error) {
	if params.OpenID == "" {
		return nil, fmt.Errorf("%w: open_id is required for upsert", domain.ErrValidation)
	}

	if r.pool == nil {
		// Matches read degradation: sign-in proceeds, activity is not recorded.
		r.logger.Warn("cannot upsert user: store unavailable", "open_id", params.OpenID)
		return nil, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (open_id, name, email, login_method, role, last_signed_in)
		VALUES ($1, $2, $3, $4, COALESCE($5, 'user'), COALESCE($6, NOW()))
		ON CONFLICT (open_id) DO UPDATE SET
			name = COALESCE($2, %s.name),
			email = COALESCE($3, %s.email),
			login_method = COALESCE($4, %s.login_method),
			role = COALESCE($5, %s.role),
			last_signed_in = COALESCE($6, NOW()),
			updated_at = NOW()
		RETURNING %s
	`, r.tables.Users, r.tables.Users, r.tables.Users, r.tables.Users, r.tables.Users, userColumns)

	executor := GetExecutor(ctx, r.pool)
	var user models.User
	err := executor.QueryRow(ctx, query,
		params.OpenID,
		params.Name,
		params.Email,
		params.LoginMethod,
		params.Role,
		params.LastSignedIn,
	).Scan(
		&user.ID,
		&user.OpenID,
		&user.Name,
		&user.Email,
		&user.LoginMethod,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastSignedIn,
	)

	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return &user, nil
}
