package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/benvon/gh-auth-gateway/internal/models"
)

// CredentialStore maps a GitHub login to its stored access token
type CredentialStore interface {
	Put(ctx context.Context, identity, token string, ttl time.Duration) error
	Get(ctx context.Context, identity string) (string, bool, error)
	Delete(ctx context.Context, identity string) error
	Ping(ctx context.Context) error
}

// GithubClient performs the OAuth exchange and proxied GitHub API calls
type GithubClient interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*models.GithubProfile, error)
	ListPrivateRepos(ctx context.Context, accessToken string) (json.RawMessage, error)
}
