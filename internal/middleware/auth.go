package middleware

import (
	"net/http"
	"strings"

	"parley/internal/auth"
	"parley/internal/httputil"
)

// Auth verifies a bearer token when one is present and attaches the caller
// identity to the request context. Requests without a token continue
// anonymously; whether anonymity is acceptable is decided per procedure
// (every chat.* procedure rejects it before touching persistence).
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, claims))
		})
	}
}
