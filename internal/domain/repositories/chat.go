package repositories

import (
	"context"

	"parley/internal/domain/models"
)

// ConversationRepository persists conversations and their messages.
type ConversationRepository interface {
	// ListByUser returns the conversations owned by userID, newest
	// activity first. Returns an empty slice when the store is down or
	// the user has none.
	ListByUser(ctx context.Context, userID int64) ([]models.Conversation, error)

	// GetWithMessages returns the conversation and its full history in
	// insertion order, only when its owner equals userID. An ownership
	// mismatch is indistinguishable from absence: both return
	// domain.ErrNotFound.
	GetWithMessages(ctx context.Context, conversationID, userID int64) (*models.ConversationWithMessages, error)

	// Create inserts a new conversation owned by userID.
	Create(ctx context.Context, userID int64, title string, description *string) (*models.Conversation, error)

	// AddMessage appends a message row. Ownership is not checked here;
	// callers authorize by fetching the conversation first.
	AddMessage(ctx context.Context, conversationID int64, role, content string) (*models.Message, error)

	// Delete verifies ownership and removes the conversation with all of
	// its messages. Ownership mismatch or absence both fail with
	// domain.ErrForbidden.
	Delete(ctx context.Context, conversationID, userID int64) error
}
