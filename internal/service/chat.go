package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"parley/internal/config"
	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
	"parley/internal/domain/services"
)

// systemPrompt is the fixed instruction prepended to every completion
// request, before the conversation history.
const systemPrompt = "You are a helpful AI assistant. Respond in the same language as the user."

// ChatService implements the ChatService interface
type ChatService struct {
	conversations repositories.ConversationRepository
	completer     services.Completer
	txManager     repositories.TransactionManager
	logger        *slog.Logger

	// Serializes sendMessage per conversation so two concurrent sends
	// cannot interleave one history incoherently.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewChatService creates a new chat service
func NewChatService(
	conversations repositories.ConversationRepository,
	completer services.Completer,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ChatService {
	return &ChatService{
		conversations: conversations,
		completer:     completer,
		txManager:     txManager,
		logger:        logger,
		locks:         make(map[int64]*sync.Mutex),
	}
}

// GetConversations lists the caller's conversations
func (s *ChatService) GetConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

// GetConversation returns a conversation with its ordered message history.
// Absence and ownership mismatch are indistinguishable here.
func (s *ChatService) GetConversation(ctx context.Context, conversationID, userID int64) (*models.ConversationWithMessages, error) {
	if err := validateConversationID(conversationID); err != nil {
		return nil, err
	}

	return s.conversations.GetWithMessages(ctx, conversationID, userID)
}

// CreateConversation creates a conversation owned by the caller
func (s *ChatService) CreateConversation(ctx context.Context, userID int64, req *services.CreateConversationRequest) (*models.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if err := validation.Validate(title,
		validation.Required,
		validation.Length(1, config.MaxConversationTitleLength),
	); err != nil {
		return nil, fmt.Errorf("%w: title %v", domain.ErrValidation, err)
	}

	conv, err := s.conversations.Create(ctx, userID, title, req.Description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation created",
		"id", conv.ID,
		"title", conv.Title,
		"user_id", userID,
	)

	return conv, nil
}

// DeleteConversation removes a conversation and its messages in one
// transaction. Non-owners get an authorization failure, not a not-found.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationID, userID int64) error {
	if err := validateConversationID(conversationID); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.conversations.Delete(txCtx, conversationID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("conversation deleted",
		"id", conversationID,
		"user_id", userID,
	)

	return nil
}

// SendMessage appends the user's message, invokes the LLM backend with the
// full prior history, appends the assistant reply, and returns it.
//
// The user message is persisted before the completion call: a failed call
// still leaves the user's side of the exchange recorded.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, req *services.SendMessageRequest) (string, error) {
	if err := s.validateSendMessageRequest(req); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	lock := s.conversationLock(req.ConversationID)
	lock.Lock()
	defer lock.Unlock()

	// Owned read doubles as the authorization check for the append below.
	conv, err := s.conversations.GetWithMessages(ctx, req.ConversationID, userID)
	if err != nil {
		return "", err
	}

	if _, err := s.conversations.AddMessage(ctx, req.ConversationID, models.MessageRoleUser, req.Message); err != nil {
		return "", err
	}

	prompt := make([]services.PromptMessage, 0, len(conv.Messages)+2)
	prompt = append(prompt, services.PromptMessage{
		Role:    services.PromptRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range conv.Messages {
		prompt = append(prompt, services.PromptMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	prompt = append(prompt, services.PromptMessage{
		Role:    services.PromptRoleUser,
		Content: req.Message,
	})

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("completion failed",
			"conversation_id", req.ConversationID,
			"error", err,
		)
		return "", err
	}

	if _, err := s.conversations.AddMessage(ctx, req.ConversationID, models.MessageRoleAssistant, reply); err != nil {
		return "", err
	}

	s.logger.Info("message exchanged",
		"conversation_id", req.ConversationID,
		"user_id", userID,
		"history_len", len(conv.Messages),
	)

	return reply, nil
}

// conversationLock returns the mutex guarding a conversation id. Locks are
// never removed; the map grows with the number of distinct conversations
// touched by this process.
func (s *ChatService) conversationLock(conversationID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conversationID] = lock
	}
	return lock
}

func (s *ChatService) validateSendMessageRequest(req *services.SendMessageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ConversationID, validation.Required, validation.Min(1)),
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, config.MaxMessageLength),
		),
	)
}

func validateConversationID(conversationID int64) error {
	if conversationID <= 0 {
		return fmt.Errorf("%w: conversationId must be a positive integer", domain.ErrValidation)
	}
	return nil
}
