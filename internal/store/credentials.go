package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indicates the credential store backend cannot be reached.
// Handlers must map this to a 5xx, never to an auth failure.
var ErrUnavailable = errors.New("credential store unavailable")

const keyPrefix = "ghcred:"

// Credentials maps a GitHub login to the GitHub access token obtained for it.
// Records carry a TTL so a stale credential ages out even if logout is never
// called. The backing Redis must be a private, access-controlled instance:
// the stored tokens are capability-bearing secrets.
type Credentials struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
// For rediss:// URLs the environment flag controls certificate checking:
// development skips verification, production requires it.
func New(redisURL, environment string) (*Credentials, error) {
	client, err := newClient(redisURL, environment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Credentials{client: client}, nil
}

func newClient(redisURL, environment string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if opts.TLSConfig != nil && environment == "development" {
		opts.TLSConfig.InsecureSkipVerify = true
	}

	return redis.NewClient(opts), nil
}

// Put stores the GitHub token for an identity, overwriting any prior record
func (s *Credentials) Put(ctx context.Context, identity, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+identity, token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get returns the stored GitHub token for an identity. A missing or expired
// record is (found=false, nil error); only transport failures are errors.
func (s *Credentials) Get(ctx context.Context, identity string) (string, bool, error) {
	token, err := s.client.Get(ctx, keyPrefix+identity).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, true, nil
}

// Delete removes the credential record. Deleting an absent record is not an error.
func (s *Credentials) Delete(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, keyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping checks if the store backend is reachable
func (s *Credentials) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Client exposes the underlying Redis client for components that share the
// connection, such as the rate limiter store.
func (s *Credentials) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *Credentials) Close() error {
	return s.client.Close()
}
