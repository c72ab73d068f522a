package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/benvon/gh-auth-gateway/internal/models"
)

// fakeStore is an in-memory CredentialStore for handler tests
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]string
	failErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Put(ctx context.Context, identity, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.data[identity] = token
	return nil
}

func (s *fakeStore) Get(ctx context.Context, identity string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", false, s.failErr
	}
	token, ok := s.data[identity]
	return token, ok, nil
}

func (s *fakeStore) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	delete(s.data, identity)
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failErr
}

func (s *fakeStore) get(identity string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.data[identity]
	return token, ok
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// fakeGithub is a canned-response GithubClient for handler tests
type fakeGithub struct {
	accessToken string
	exchangeErr error
	profile     *models.GithubProfile
	profileErr  error
	repos       json.RawMessage
	reposErr    error
}

func (g *fakeGithub) AuthCodeURL(state string) string {
	return "https://github.com/login/oauth/authorize?client_id=client-id&state=" + state
}

func (g *fakeGithub) ExchangeCode(ctx context.Context, code string) (string, error) {
	if g.exchangeErr != nil {
		return "", g.exchangeErr
	}
	return g.accessToken, nil
}

func (g *fakeGithub) FetchProfile(ctx context.Context, accessToken string) (*models.GithubProfile, error) {
	if g.profileErr != nil {
		return nil, g.profileErr
	}
	return g.profile, nil
}

func (g *fakeGithub) ListPrivateRepos(ctx context.Context, accessToken string) (json.RawMessage, error) {
	if g.reposErr != nil {
		return nil, g.reposErr
	}
	return g.repos, nil
}
