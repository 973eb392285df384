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

// PostgresConversationRepository implements the ConversationRepository
// interface using PostgreSQL
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationRepository creates a new PostgresConversationRepository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListByUser retrieves all conversations owned by a user
func (r *PostgresConversationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	if r.pool == nil {
		r.logger.Warn("cannot list conversations: store unavailable", "user_id", userID)
		return []models.Conversation{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Title,
			&conv.Description,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	// Return empty slice instead of nil
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	return conversations, nil
}

// GetWithMessages retrieves a conversation and its full ordered history.
// The owner check happens here: a mismatch returns the same not-found as a
// missing row so other users' conversations cannot be probed.
func (r *PostgresConversationRepository) GetWithMessages(ctx context.Context, conversationID, userID int64) (*models.ConversationWithMessages, error) {
	if r.pool == nil {
		r.logger.Warn("cannot get conversation: store unavailable", "conversation_id", conversationID)
		return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}

	convQuery := fmt.Sprintf(`
		SELECT id, user_id, title, description, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	var conv models.Conversation
	err := executor.QueryRow(ctx, convQuery, conversationID, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Description,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	// Insertion order is the canonical message order.
	msgQuery := fmt.Sprintf(`
		SELECT id, conversation_id, role, content, created_at
		FROM %s
		WHERE conversation_id = $1
		ORDER BY id ASC
	`, r.tables.Messages)

	rows, err := executor.Query(ctx, msgQuery, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return &models.ConversationWithMessages{
		Conversation: conv,
		Messages:     messages,
	}, nil
}

// Create inserts a new conversation row
func (r *PostgresConversationRepository) Create(ctx context.Context, userID int64, title string, description *string) (*models.Conversation, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: cannot create conversation", domain.ErrStoreUnavailable)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, description, created_at, updated_at
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	var conv models.Conversation
	err := executor.QueryRow(ctx, query, userID, title, description).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Description,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	return &conv, nil
}

// AddMessage appends a message row. No ownership check here: callers
// authorize by fetching the conversation under the owner first.
func (r *PostgresConversationRepository) AddMessage(ctx context.Context, conversationID int64, role, content string) (*models.Message, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: cannot add message", domain.ErrStoreUnavailable)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, role, content, created_at
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	var msg models.Message
	err := executor.QueryRow(ctx, query, conversationID, role, content).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	return &msg, nil
}

// Delete removes a conversation and all of its messages, messages first so
// referential integrity holds without a cascade. Ownership mismatch and
// absence are both authorization failures, distinguishable from the
// collapsed not-found that reads return.
func (r *PostgresConversationRepository) Delete(ctx context.Context, conversationID, userID int64) error {
	if r.pool == nil {
		return fmt.Errorf("%w: cannot delete conversation", domain.ErrStoreUnavailable)
	}

	ownerQuery := fmt.Sprintf(`
		SELECT user_id FROM %s WHERE id = $1
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	var ownerID int64
	err := executor.QueryRow(ctx, ownerQuery, conversationID).Scan(&ownerID)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("conversation %d: %w", conversationID, domain.ErrForbidden)
		}
		return fmt.Errorf("check conversation owner: %w", err)
	}
	if ownerID != userID {
		return fmt.Errorf("conversation %d: %w", conversationID, domain.ErrForbidden)
	}

	deleteMessages := fmt.Sprintf(`DELETE FROM %s WHERE conversation_id = $1`, r.tables.Messages)
	if _, err := executor.Exec(ctx, deleteMessages, conversationID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	deleteConversation := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Conversations)
	if _, err := executor.Exec(ctx, deleteConversation, conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	return nil
}
