package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/benvon/gh-auth-gateway/internal/logger"
)

// Pinger reports backend reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	store Pinger
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store Pinger) *HealthChecker {
	return &HealthChecker{store: store}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// Redis handles the /health/redis endpoint
func (h *HealthChecker) Redis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "error",
			Details: logger.SanitizeError(err),
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
