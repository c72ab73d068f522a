package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benvon/gh-auth-gateway/internal/config"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective gateway configuration",
		Long:  "Print the configuration resolved from the environment, with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Printf("GITHUB_CLIENT_ID:  %s\n", cfg.GithubClientID)
			fmt.Printf("GITHUB_CLIENT_SECRET: %s\n", redact(cfg.GithubClientSecret))
			fmt.Printf("JWT_SECRET:        %s\n", redact(cfg.JWTSecret))
			fmt.Printf("REDIS_URL:         %s\n", cfg.RedisURL)
			fmt.Printf("BASE_URL:          %s\n", cfg.BaseURL)
			fmt.Printf("Callback URL:      %s\n", cfg.CallbackURL())
			fmt.Printf("FRONTEND_URL:      %s\n", cfg.FrontendURL)
			fmt.Printf("SERVER_PORT:       %s\n", cfg.ServerPort)
			fmt.Printf("ENVIRONMENT:       %s\n", cfg.Environment)
			fmt.Printf("SESSION_TTL:       %s\n", cfg.SessionTTL)
			fmt.Printf("TOKEN_TTL:         %s\n", cfg.TokenTTL)
			fmt.Printf("RATE_LIMIT:        %s\n", cfg.RateLimit)

			return nil
		},
	}
}

func redact(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "********"
}
