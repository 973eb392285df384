package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/services"
	"parley/internal/httputil"
)

// fakeChatService records calls and answers with canned results.
type fakeChatService struct {
	calls         int
	conversations []models.Conversation
	conversation  *models.ConversationWithMessages
	reply         string
	err           error
	lastUserID    int64
	lastConvID    int64
	lastSendReq   *services.SendMessageRequest
}

func (f *fakeChatService) GetConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	f.calls++
	f.lastUserID = userID
	return f.conversations, f.err
}

func (f *fakeChatService) GetConversation(ctx context.Context, conversationID, userID int64) (*models.ConversationWithMessages, error) {
	f.calls++
	f.lastUserID = userID
	f.lastConvID = conversationID
	if f.err != nil {
		return nil, f.err
	}
	return f.conversation, nil
}

func (f *fakeChatService) CreateConversation(ctx context.Context, userID int64, req *services.CreateConversationRequest) (*models.Conversation, error) {
	f.calls++
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Conversation{ID: 1, UserID: userID, Title: req.Title}, nil
}

func (f *fakeChatService) DeleteConversation(ctx context.Context, conversationID, userID int64) error {
	f.calls++
	f.lastUserID = userID
	f.lastConvID = conversationID
	return f.err
}

func (f *fakeChatService) SendMessage(ctx context.Context, userID int64, req *services.SendMessageRequest) (string, error) {
	f.calls++
	f.lastUserID = userID
	f.lastSendReq = req
	return f.reply, f.err
}

func newTestChatHandler(svc *fakeChatService) *ChatHandler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewChatHandler(svc, logger)
}

func authenticated(r *http.Request, userID int64) *http.Request {
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: fmt.Sprintf("open-%d", userID)},
		UserID:           userID,
	}
	return httputil.WithIdentity(r, claims)
}

func TestChatProcedures_RequireAuthentication(t *testing.T) {
	svc := &fakeChatService{}
	h := newTestChatHandler(svc)

	cases := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		target  string
	}{
		{"getConversations", h.GetConversations, http.MethodGet, "/api/chat.getConversations"},
		{"getConversation", h.GetConversation, http.MethodGet, "/api/chat.getConversation?conversationId=1"},
		{"createConversation", h.CreateConversation, http.MethodPost, "/api/chat.createConversation"},
		{"deleteConversation", h.DeleteConversation, http.MethodPost, "/api/chat.deleteConversation"},
		{"sendMessage", h.SendMessage, http.MethodPost, "/api/chat.sendMessage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader("{}"))
			rec := httptest.NewRecorder()

			tc.handler(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}

	if svc.calls != 0 {
		t.Errorf("service must not be reached by anonymous requests, got %d calls", svc.calls)
	}
}

func TestGetConversations_ScopedToCaller(t *testing.T) {
	svc := &fakeChatService{conversations: []models.Conversation{{ID: 3, UserID: 7, Title: "Trip"}}}
	h := newTestChatHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/api/chat.getConversations", nil), 7)
	rec := httptest.NewRecorder()
	h.GetConversations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUserID != 7 {
		t.Errorf("expected service scoped to user 7, got %d", svc.lastUserID)
	}

	var got []models.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Trip" {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestGetConversation_AbsentIsNull(t *testing.T) {
	svc := &fakeChatService{err: fmt.Errorf("conversation 9: %w", domain.ErrNotFound)}
	h := newTestChatHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/api/chat.getConversation?conversationId=9", nil), 7)
	rec := httptest.NewRecorder()
	h.GetConversation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with null body, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("expected literal null, got %q", body)
	}
}

func TestGetConversation_MissingParam(t *testing.T) {
	svc := &fakeChatService{}
	h := newTestChatHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/api/chat.getConversation", nil), 7)
	rec := httptest.NewRecorder()
	h.GetConversation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing conversationId, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Errorf("service must not be called, got %d calls", svc.calls)
	}
}

func TestCreateConversation_Created(t *testing.T) {
	svc := &fakeChatService{}
	h := newTestChatHandler(svc)

	body := strings.NewReader(`{"title":"Budget","description":"spreadsheet talk"}`)
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.createConversation", body), 7)
	rec := httptest.NewRecorder()
	h.CreateConversation(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var got models.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got.Title != "Budget" || got.UserID != 7 {
		t.Errorf("unexpected conversation: %+v", got)
	}
}

func TestCreateConversation_ValidationFailure(t *testing.T) {
	svc := &fakeChatService{err: fmt.Errorf("%w: title cannot be blank", domain.ErrValidation)}
	h := newTestChatHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.createConversation", strings.NewReader(`{"title":""}`)), 7)
	rec := httptest.NewRecorder()
	h.CreateConversation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteConversation_Forbidden(t *testing.T) {
	svc := &fakeChatService{err: fmt.Errorf("conversation 3: %w", domain.ErrForbidden)}
	h := newTestChatHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.deleteConversation", strings.NewReader(`{"conversationId":3}`)), 8)
	rec := httptest.NewRecorder()
	h.DeleteConversation(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if svc.lastConvID != 3 || svc.lastUserID != 8 {
		t.Errorf("unexpected delete args: conv=%d user=%d", svc.lastConvID, svc.lastUserID)
	}
}

func TestDeleteConversation_Success(t *testing.T) {
	svc := &fakeChatService{}
	h := newTestChatHandler(svc)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.deleteConversation", strings.NewReader(`{"conversationId":3}`)), 7)
	rec := httptest.NewRecorder()
	h.DeleteConversation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"success":true}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSendMessage_ReturnsAssistantReply(t *testing.T) {
	svc := &fakeChatService{reply: "Day 1: Asakusa."}
	h := newTestChatHandler(svc)

	body := strings.NewReader(`{"conversationId":3,"message":"plan my trip"}`)
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.sendMessage", body), 7)
	rec := httptest.NewRecorder()
	h.SendMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got["message"] != "Day 1: Asakusa." {
		t.Errorf("unexpected reply: %q", got["message"])
	}
	if svc.lastSendReq == nil || svc.lastSendReq.ConversationID != 3 || svc.lastSendReq.Message != "plan my trip" {
		t.Errorf("unexpected request: %+v", svc.lastSendReq)
	}
}

func TestSendMessage_UpstreamFailure(t *testing.T) {
	svc := &fakeChatService{err: fmt.Errorf("%w: connection refused", domain.ErrUpstream)}
	h := newTestChatHandler(svc)

	body := strings.NewReader(`{"conversationId":3,"message":"hello?"}`)
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.sendMessage", body), 7)
	rec := httptest.NewRecorder()
	h.SendMessage(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestSendMessage_StoreUnavailable(t *testing.T) {
	svc := &fakeChatService{err: fmt.Errorf("%w: cannot add message", domain.ErrStoreUnavailable)}
	h := newTestChatHandler(svc)

	body := strings.NewReader(`{"conversationId":3,"message":"hello?"}`)
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/chat.sendMessage", body), 7)
	rec := httptest.NewRecorder()
	h.SendMessage(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
