package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/gh-auth-gateway/internal/models"
)

func TestSessionToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "cookie only", cookie: "from-cookie", want: "from-cookie"},
		{name: "bearer only", header: "Bearer from-header", want: "from-header"},
		{name: "cookie wins over bearer", cookie: "from-cookie", header: "Bearer from-header", want: "from-cookie"},
		{name: "non-bearer scheme ignored", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "neither present", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if got := SessionToken(req); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr fallback",
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1:1234",
		},
		{
			name:       "x-forwarded-for first hop",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := ClientIP(req); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClaimsContextRoundTrip(t *testing.T) {
	t.Parallel()

	claims := &models.SessionClaims{Subject: "alice", Name: "Alice"}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(WithClaims(req.Context(), claims))

	got := ClaimsFromContext(req)
	if got == nil || got.Subject != "alice" {
		t.Fatalf("Expected claims for alice, got %v", got)
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if got := ClaimsFromContext(req); got != nil {
		t.Fatalf("Expected nil claims, got %v", got)
	}
}
