package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/benvon/gh-auth-gateway/internal/logger"
	"github.com/benvon/gh-auth-gateway/internal/request"
	"github.com/benvon/gh-auth-gateway/internal/store"
)

// RepoHandler proxies GitHub repository calls using stored credentials
type RepoHandler struct {
	github GithubClient
	store  CredentialStore
	logger *zap.Logger
}

// NewRepoHandler creates a new repo proxy handler
func NewRepoHandler(gh GithubClient, credStore CredentialStore, log *zap.Logger) *RepoHandler {
	return &RepoHandler{github: gh, store: credStore, logger: log}
}

// PrivateRepos lists the user's private repositories with the stored GitHub
// token. A valid session whose credential has been deleted or expired gets a
// 401 telling the user to log in again; store outages are 503, never 401.
func (h *RepoHandler) PrivateRepos(w http.ResponseWriter, r *http.Request) {
	claims := request.ClaimsFromContext(r)
	if claims == nil {
		respondDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx := r.Context()

	githubToken, found, err := h.store.Get(ctx, claims.Subject)
	if err != nil {
		h.logger.Error("credential_store_get_failed",
			zap.String("identity", claims.Subject),
			zap.String("error", logger.SanitizeError(err)),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		respondDetail(w, status, "Credential store unavailable")
		return
	}
	if !found {
		respondDetail(w, http.StatusUnauthorized, "No GitHub token found, please log in again")
		return
	}

	repos, err := h.github.ListPrivateRepos(ctx, githubToken)
	if err != nil {
		h.logger.Warn("github_repo_listing_failed",
			zap.String("identity", claims.Subject),
			zap.String("error", logger.SanitizeError(err)),
		)
		respondDetail(w, http.StatusBadGateway, "Failed to fetch private repositories")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(repos); err != nil {
		h.logger.Warn("response_write_failed", zap.Error(err))
	}
}
