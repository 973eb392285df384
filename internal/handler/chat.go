package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"parley/internal/domain"
	"parley/internal/domain/services"
	"parley/internal/httputil"
)

// ChatHandler exposes the chat.* procedures.
// Handlers only communicate with services, never repositories.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// GetConversations lists the caller's conversations
// GET /api/chat.getConversations
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	conversations, err := h.chatService.GetConversations(r.Context(), claims.UserID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversations)
}

// GetConversation returns one conversation with its messages
// GET /api/chat.getConversation?conversationId=N
//
// Absent or not-owned resolves to a JSON null body, not a 404: callers
// cannot tell whether somebody else's conversation exists.
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	conversationID, ok := queryInt64(w, r, "conversationId")
	if !ok {
		return
	}

	conv, err := h.chatService.GetConversation(r.Context(), conversationID, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondJSON(w, http.StatusOK, nil)
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// CreateConversation creates a new conversation
// POST /api/chat.createConversation
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req services.CreateConversationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.chatService.CreateConversation(r.Context(), claims.UserID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, conv)
}

// DeleteConversation deletes a conversation and its messages
// POST /api/chat.deleteConversation
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req struct {
		ConversationID int64 `json:"conversationId"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.chatService.DeleteConversation(r.Context(), req.ConversationID, claims.UserID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SendMessage appends a user message and returns the assistant reply
// POST /api/chat.sendMessage
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatService.SendMessage(r.Context(), claims.UserID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": reply})
}
