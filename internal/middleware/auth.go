package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/benvon/gh-auth-gateway/internal/request"
	"github.com/benvon/gh-auth-gateway/internal/token"
)

// Auth creates middleware that verifies the session token and attaches its
// claims to the request context. Expiry is always enforced here; the refresh
// handler does its own expiry-ignoring verification and must not be wrapped
// with this middleware.
func Auth(codec *token.Codec, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := request.SessionToken(r)
			if raw == "" {
				respondDetail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				logger.Debug("session_token_rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				switch {
				case errors.Is(err, token.ErrExpired):
					respondDetail(w, http.StatusUnauthorized, "Token expired")
				default:
					respondDetail(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			ctx := request.WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondDetail writes the gateway's JSON error body
func respondDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
