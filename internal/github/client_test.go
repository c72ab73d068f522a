package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testClient(ts *httptest.Server) *Client {
	return NewClient("client-id", "client-secret", "http://localhost:8080/auth/github/callback",
		WithOAuthEndpoint(oauth2.Endpoint{
			AuthURL:  ts.URL + "/login/oauth/authorize",
			TokenURL: ts.URL + "/login/oauth/access_token",
		}),
		WithAPIBaseURL(ts.URL),
		WithHTTPClient(ts.Client()),
	)
}

func TestClient_AuthCodeURL(t *testing.T) {
	t.Parallel()

	client := NewClient("client-id", "client-secret", "http://localhost:8080/auth/github/callback")
	url := client.AuthCodeURL("some-state")

	for _, want := range []string{
		"https://github.com/login/oauth/authorize",
		"client_id=client-id",
		"scope=repo",
		"state=some-state",
		"redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fauth%2Fgithub%2Fcallback",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("Expected authorize URL to contain %q, got %s", want, url)
		}
	}
}

func TestClient_ExchangeCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantToken string
		wantErr   bool
	}{
		{
			name: "successful exchange",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("Expected POST, got %s", r.Method)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access_token":"ghp_xyz","token_type":"bearer","scope":"repo"}`))
			},
			wantToken: "ghp_xyz",
		},
		{
			name: "response missing access token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			},
			wantErr: true,
		},
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			client := testClient(ts)
			token, err := client.ExchangeCode(context.Background(), "abc123")

			if tt.wantErr {
				if !errors.Is(err, ErrExchangeFailed) {
					t.Errorf("Expected ErrExchangeFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExchangeCode failed: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("Expected token %s, got %s", tt.wantToken, token)
			}
		})
	}
}

func TestClient_FetchProfile(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("Expected /user, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ghp_xyz" {
			t.Errorf("Expected Bearer ghp_xyz, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Expected GitHub accept header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"alice","name":"Alice","avatar_url":"http://x/a.png","id":42}`))
	}))
	defer ts.Close()

	client := testClient(ts)
	profile, err := client.FetchProfile(context.Background(), "ghp_xyz")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}

	if profile.Login != "alice" {
		t.Errorf("Expected login alice, got %s", profile.Login)
	}
	if profile.Name != "Alice" {
		t.Errorf("Expected name Alice, got %s", profile.Name)
	}
	if profile.AvatarURL != "http://x/a.png" {
		t.Errorf("Expected avatar_url http://x/a.png, got %s", profile.AvatarURL)
	}
}

func TestClient_FetchProfileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name: "missing login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"name":"Alice"}`))
			},
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			client := testClient(ts)
			if _, err := client.FetchProfile(context.Background(), "ghp_xyz"); !errors.Is(err, ErrProfileFetchFailed) {
				t.Errorf("Expected ErrProfileFetchFailed, got %v", err)
			}
		})
	}
}

func TestClient_ListPrivateRepos(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/repos" {
			t.Errorf("Expected /user/repos, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("visibility"); got != "private" {
			t.Errorf("Expected visibility=private, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"secret-repo","private":true}]`))
	}))
	defer ts.Close()

	client := testClient(ts)
	repos, err := client.ListPrivateRepos(context.Background(), "ghp_xyz")
	if err != nil {
		t.Fatalf("ListPrivateRepos failed: %v", err)
	}

	if !strings.Contains(string(repos), "secret-repo") {
		t.Errorf("Expected response to contain secret-repo, got %s", repos)
	}
}

func TestClient_ListPrivateReposUpstreamFailure(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := testClient(ts)
	if _, err := client.ListPrivateRepos(context.Background(), "ghp_xyz"); !errors.Is(err, ErrProxyFailed) {
		t.Errorf("Expected ErrProxyFailed, got %v", err)
	}
}
