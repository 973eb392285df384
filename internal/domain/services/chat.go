package services

import (
	"context"

	"parley/internal/domain/models"
)

// CreateConversationRequest is the input for ChatService.CreateConversation.
type CreateConversationRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// SendMessageRequest is the input for ChatService.SendMessage.
type SendMessageRequest struct {
	ConversationID int64  `json:"conversationId"`
	Message        string `json:"message"`
}

// ChatService exposes the conversation/message operations behind the
// chat.* procedures. Every call is authorized against the owning user.
type ChatService interface {
	// GetConversations lists the caller's conversations, possibly empty.
	GetConversations(ctx context.Context, userID int64) ([]models.Conversation, error)

	// GetConversation returns a conversation with its ordered history,
	// or domain.ErrNotFound when absent or owned by another user.
	GetConversation(ctx context.Context, conversationID, userID int64) (*models.ConversationWithMessages, error)

	// CreateConversation creates a conversation owned by the caller.
	CreateConversation(ctx context.Context, userID int64, req *CreateConversationRequest) (*models.Conversation, error)

	// DeleteConversation removes the caller's conversation and its
	// messages; domain.ErrForbidden when the caller is not the owner.
	DeleteConversation(ctx context.Context, conversationID, userID int64) error

	// SendMessage appends the user's message, invokes the LLM backend
	// with the full history, appends the assistant reply, and returns
	// the reply text.
	SendMessage(ctx context.Context, userID int64, req *SendMessageRequest) (string, error)
}
