package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/benvon/gh-auth-gateway/internal/models"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "access_token"

// SessionToken extracts the session token from a request. The httpOnly
// cookie is the primary transport; a Bearer header is accepted only when no
// cookie is present so non-browser clients can call the API.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithClaims returns a context with the verified session claims attached
func WithClaims(ctx context.Context, claims *models.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the session claims from the request context, or nil if missing.
func ClaimsFromContext(r *http.Request) *models.SessionClaims {
	claims, _ := r.Context().Value(claimsContextKey).(*models.SessionClaims)
	return claims
}
