package handler

import (
	"errors"
	"net/http"
	"strconv"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireIdentity rejects anonymous callers with 401 before anything else
// runs. Every chat.* procedure goes through this first, so unauthenticated
// requests never reach persistence.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims := httputil.GetIdentity(r)
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}

// queryInt64 parses a required integer query parameter.
func queryInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		httputil.RespondError(w, http.StatusBadRequest, name+" query parameter is required")
		return 0, false
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}

	return value, true
}
