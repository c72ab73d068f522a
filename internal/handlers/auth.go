package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/gh-auth-gateway/internal/github"
	"github.com/benvon/gh-auth-gateway/internal/logger"
	"github.com/benvon/gh-auth-gateway/internal/request"
	"github.com/benvon/gh-auth-gateway/internal/store"
	"github.com/benvon/gh-auth-gateway/internal/token"
)

const stateCookieName = "oauth_state"
const stateCookieTTL = 10 * time.Minute

// AuthHandler handles the OAuth login flow and session lifecycle
type AuthHandler struct {
	github      GithubClient
	store       CredentialStore
	codec       *token.Codec
	frontendURL string
	sessionTTL  time.Duration
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler. sessionTTL bounds the credential
// record in the store, not the GitHub token's own lifetime.
func NewAuthHandler(gh GithubClient, credStore CredentialStore, codec *token.Codec, frontendURL string, sessionTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		github:      gh,
		store:       credStore,
		codec:       codec,
		frontendURL: frontendURL,
		sessionTTL:  sessionTTL,
		logger:      log,
	}
}

// Login redirects the browser to the GitHub authorize URL
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the OAuth flow: code exchange, profile fetch, credential
// store write, session token issuance. The store write happens only after
// both GitHub calls succeed, so a failed exchange leaves no partial state.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		respondDetail(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		respondDetail(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	clearCookie(w, stateCookieName)

	accessToken, err := h.github.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Warn("github_code_exchange_failed", zap.String("error", logger.SanitizeError(err)))
		respondDetail(w, http.StatusBadRequest, "GitHub rejected the authorization code")
		return
	}

	profile, err := h.github.FetchProfile(ctx, accessToken)
	if err != nil {
		h.logger.Warn("github_profile_fetch_failed", zap.String("error", logger.SanitizeError(err)))
		respondDetail(w, http.StatusBadGateway, "Failed to fetch GitHub profile")
		return
	}

	sessionToken, err := h.codec.Issue(profile.Login, profile.Name, profile.AvatarURL)
	if err != nil {
		h.logger.Error("session_token_issue_failed", zap.Error(err))
		respondDetail(w, http.StatusInternalServerError, "Failed to issue session token")
		return
	}

	if err := h.store.Put(ctx, profile.Login, accessToken, h.sessionTTL); err != nil {
		h.logger.Error("credential_store_put_failed",
			zap.String("identity", profile.Login),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondDetail(w, http.StatusServiceUnavailable, "Credential store unavailable")
		return
	}

	h.logger.Info("user_authenticated",
		zap.String("identity", profile.Login),
		zap.String("github_token", logger.RedactToken(accessToken)),
	)

	h.setSessionCookie(w, sessionToken)
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

// Me returns the identity claims of the verified session token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := request.ClaimsFromContext(r)
	if claims == nil {
		respondDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"username":   claims.Subject,
		"name":       claims.Name,
		"avatar_url": claims.AvatarURL,
	})
}

// Refresh reissues a session token with fresh expiry. The old token may be
// expired, but its signature must still verify; a tampered token is rejected
// regardless of expiry-check mode.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw := request.SessionToken(r)
	if raw == "" {
		respondDetail(w, http.StatusUnauthorized, "Missing token")
		return
	}

	claims, err := h.codec.VerifyIgnoreExpiry(raw)
	if err != nil {
		respondDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	newToken, err := h.codec.Issue(claims.Subject, claims.Name, claims.AvatarURL)
	if err != nil {
		h.logger.Error("session_token_issue_failed", zap.Error(err))
		respondDetail(w, http.StatusInternalServerError, "Failed to issue session token")
		return
	}

	h.setSessionCookie(w, newToken)
	respondJSON(w, http.StatusOK, map[string]string{"token": newToken})
}

// Logout deletes the stored GitHub credential and clears the session cookie.
// Logging out twice is not an error; the second call simply deletes nothing.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	raw := request.SessionToken(r)
	if raw == "" {
		respondDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	claims, err := h.codec.Verify(raw)
	if err != nil {
		respondDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.store.Delete(r.Context(), claims.Subject); err != nil {
		h.logger.Error("credential_store_delete_failed",
			zap.String("identity", claims.Subject),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondDetail(w, http.StatusServiceUnavailable, "Credential store unavailable")
		return
	}

	clearCookie(w, request.SessionCookieName)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     request.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(h.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for anything security related
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

var (
	_ GithubClient    = (*github.Client)(nil)
	_ CredentialStore = (*store.Credentials)(nil)
)
