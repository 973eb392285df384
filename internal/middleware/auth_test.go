package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/httputil"
)

type fakeVerifier struct {
	claims *models.Claims
	err    error
}

func (f *fakeVerifier) VerifyToken(token string) (*models.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func (f *fakeVerifier) Close() error { return nil }

func TestAuth_AnonymousPassesThrough(t *testing.T) {
	var seen *models.Claims
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen = httputil.GetIdentity(r)
	})

	handler := Auth(&fakeVerifier{})(next)
	req := httptest.NewRequest(http.MethodGet, "/api/auth.me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected anonymous request to reach the next handler")
	}
	if seen != nil {
		t.Errorf("expected nil identity for anonymous request, got %+v", seen)
	}
}

func TestAuth_MalformedHeaderRejected(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run for a malformed header")
	})

	handler := Auth(&fakeVerifier{})(next)
	req := httptest.NewRequest(http.MethodGet, "/api/chat.getConversations", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidTokenRejected(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run for an invalid token")
	})

	verifier := &fakeVerifier{err: errors.Join(domain.ErrUnauthorized, errors.New("expired"))}
	handler := Auth(verifier)(next)
	req := httptest.NewRequest(http.MethodGet, "/api/chat.getConversations", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ValidTokenAttachesIdentity(t *testing.T) {
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "open-7"},
		UserID:           7,
	}

	var seen *models.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetIdentity(r)
	})

	handler := Auth(&fakeVerifier{claims: claims})(next)
	req := httptest.NewRequest(http.MethodGet, "/api/chat.getConversations", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == nil {
		t.Fatal("expected identity in the request context")
	}
	if seen.UserID != 7 || seen.Subject != "open-7" {
		t.Errorf("unexpected identity: %+v", seen)
	}
}
