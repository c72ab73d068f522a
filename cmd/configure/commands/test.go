package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/benvon/gh-auth-gateway/internal/config"
	"github.com/benvon/gh-auth-gateway/internal/store"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test gateway dependencies",
		Long:  "Verify that the credential store and the GitHub OAuth endpoint are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Printf("Testing credential store: %s\n", cfg.RedisURL)
			credStore, err := store.New(cfg.RedisURL, cfg.Environment)
			if err != nil {
				return fmt.Errorf("credential store check failed: %w", err)
			}
			defer func() {
				_ = credStore.Close()
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := credStore.Ping(ctx); err != nil {
				return fmt.Errorf("credential store ping failed: %w", err)
			}
			fmt.Println("✓ Credential store is reachable")

			authorizeURL := "https://github.com/login/oauth/authorize"
			fmt.Printf("\nTesting GitHub authorize endpoint: %s\n", authorizeURL)
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Head(authorizeURL)
			if err != nil {
				return fmt.Errorf("failed to reach GitHub authorize endpoint: %w", err)
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("GitHub authorize endpoint returned status: %d", resp.StatusCode)
			}
			fmt.Println("✓ GitHub authorize endpoint is reachable")

			return nil
		},
	}
}
