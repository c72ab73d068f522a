package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/benvon/gh-auth-gateway/internal/models"
)

var (
	// ErrExpired indicates a token whose signature is valid but whose expiry has passed
	ErrExpired = errors.New("session token expired")
	// ErrInvalidSignature indicates a well-formed token signed with a different secret
	ErrInvalidSignature = errors.New("session token signature invalid")
	// ErrMalformed indicates input that is not a parseable JWT
	ErrMalformed = errors.New("session token malformed")
)

// Codec issues and verifies self-contained session tokens (HS256 JWTs).
// The signing secret is loaded once at startup and never rotated at runtime,
// so a Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec with a symmetric signing secret and token lifetime
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed session token for an identity
func (c *Codec) Issue(identity, name, avatarURL string) (string, error) {
	now := time.Now()

	tok, err := jwt.NewBuilder().
		Subject(identity).
		IssuedAt(now).
		Expiration(now.Add(c.ttl)).
		Claim("name", name).
		Claim("avatar_url", avatarURL).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build session token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, c.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return string(signed), nil
}

// Verify checks signature and expiry and returns the embedded claims
func (c *Codec) Verify(raw string) (*models.SessionClaims, error) {
	return c.verify(raw, true)
}

// VerifyIgnoreExpiry checks the signature but skips the expiry check.
// It exists solely so refresh can reissue a token for a subject whose old
// token already expired; every other caller must use Verify.
func (c *Codec) VerifyIgnoreExpiry(raw string) (*models.SessionClaims, error) {
	return c.verify(raw, false)
}

func (c *Codec) verify(raw string, checkExpiry bool) (*models.SessionClaims, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, c.secret),
		jwt.WithValidate(checkExpiry),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return nil, ErrExpired
		}
		if jwt.IsValidationError(err) {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		// Distinguish a bad signature from garbage input: if the token does
		// not even parse without verification, it is malformed.
		if _, parseErr := jwt.Parse([]byte(raw), jwt.WithVerify(false), jwt.WithValidate(false)); parseErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, parseErr)
		}
		return nil, ErrInvalidSignature
	}

	return claimsFromToken(tok), nil
}

func claimsFromToken(tok jwt.Token) *models.SessionClaims {
	claims := &models.SessionClaims{
		Subject:   tok.Subject(),
		IssuedAt:  tok.IssuedAt().Unix(),
		ExpiresAt: tok.Expiration().Unix(),
	}
	if v, ok := tok.Get("name"); ok {
		if s, ok := v.(string); ok {
			claims.Name = s
		}
	}
	if v, ok := tok.Get("avatar_url"); ok {
		if s, ok := v.(string); ok {
			claims.AvatarURL = s
		}
	}
	return claims
}
