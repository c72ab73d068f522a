package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS creates CORS middleware allowing the configured frontend origin(s)
// with credentials, since the session cookie rides on cross-origin requests.
// frontendURL may be a comma-separated list of origins.
func CORS(frontendURL string) func(http.Handler) http.Handler {
	var origins []string
	for _, origin := range strings.Split(frontendURL, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return c.Handler
}
