package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/benvon/gh-auth-gateway/internal/models"
)

var (
	// ErrExchangeFailed indicates GitHub rejected the authorization code exchange
	ErrExchangeFailed = errors.New("github code exchange failed")
	// ErrProfileFetchFailed indicates the authenticated user profile could not be fetched
	ErrProfileFetchFailed = errors.New("github profile fetch failed")
	// ErrProxyFailed indicates the proxied repository listing call failed upstream
	ErrProxyFailed = errors.New("github repository listing failed")
)

const defaultAPIBaseURL = "https://api.github.com"

// OAuthScopes requested at login. The repo scope is needed for the private
// repository listing and cannot be escalated later without a fresh consent
// round-trip.
var OAuthScopes = []string{"repo"}

// Client performs the OAuth code exchange and the GitHub API calls made on
// the user's behalf
type Client struct {
	oauth      oauth2.Config
	httpClient *http.Client
	apiBaseURL string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for all GitHub calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOAuthEndpoint overrides the OAuth endpoint (for tests)
func WithOAuthEndpoint(endpoint oauth2.Endpoint) Option {
	return func(c *Client) { c.oauth.Endpoint = endpoint }
}

// WithAPIBaseURL overrides the GitHub API base URL (for tests)
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) { c.apiBaseURL = baseURL }
}

// NewClient creates a GitHub OAuth client. redirectURL must be the exact
// callback URL registered with the OAuth app.
func NewClient(clientID, clientSecret, redirectURL string, opts ...Option) *Client {
	c := &Client{
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       OAuthScopes,
			Endpoint:     endpoints.GitHub,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBaseURL: defaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthCodeURL builds the GitHub authorize URL for the login redirect
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for a GitHub access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: response missing access token", ErrExchangeFailed)
	}

	return tok.AccessToken, nil
}

// FetchProfile fetches the authenticated user's profile with the given token
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*models.GithubProfile, error) {
	body, err := c.get(ctx, c.apiBaseURL+"/user", accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}

	var profile models.GithubProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	if profile.Login == "" {
		return nil, fmt.Errorf("%w: response missing login", ErrProfileFetchFailed)
	}

	return &profile, nil
}

// ListPrivateRepos lists the user's private repositories with the stored
// token and returns GitHub's response body untouched
func (c *Client) ListPrivateRepos(ctx context.Context, accessToken string) (json.RawMessage, error) {
	body, err := c.get(ctx, c.apiBaseURL+"/user/repos?visibility=private", accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProxyFailed, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON in response", ErrProxyFailed)
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status: %s", res.Status)
	}

	return io.ReadAll(res.Body)
}
