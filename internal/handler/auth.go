package handler

import (
	"log/slog"
	"net/http"

	"parley/internal/domain/services"
	"parley/internal/httputil"
)

// AuthHandler exposes the auth.* procedures.
type AuthHandler struct {
	userService services.UserService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService services.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Me returns the authenticated caller's user record, upserting it so
// sign-in activity is recorded. Anonymous callers get a JSON null.
// GET /api/auth.me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := httputil.GetIdentity(r)
	if claims == nil {
		httputil.RespondJSON(w, http.StatusOK, nil)
		return
	}

	user, err := h.userService.EnsureUser(r.Context(), claims)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// Logout acknowledges a sign-out. Session cookies live at the session
// edge, not here, so there is nothing to clear server-side.
// POST /api/auth.logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
