package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration
type Config struct {
	GithubClientID     string `validate:"required"`
	GithubClientSecret string `validate:"required"`
	JWTSecret          string `validate:"required"`
	RedisURL           string `validate:"required,uri"`
	BaseURL            string `validate:"required,url"`
	FrontendURL        string `validate:"required,url"`
	ServerPort         string
	Environment        string `validate:"oneof=development production"`
	SessionTTL         time.Duration
	TokenTTL           time.Duration
	RateLimit          string
	ServerDebugMode    bool
	OTELEnabled        bool
	OTELEndpoint       string
}

// CallbackURL is the externally visible callback route. It must match the
// redirect URI registered with the GitHub OAuth app exactly, otherwise
// GitHub rejects the code exchange.
func (c *Config) CallbackURL() string {
	return c.BaseURL + "/auth/github/callback"
}

var validate = validator.New()

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		GithubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		SessionTTL:         getEnvDuration("SESSION_TTL", time.Hour),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 30*time.Minute),
		RateLimit:          getEnv("RATE_LIMIT", "10-M"),
		ServerDebugMode:    getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:        getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, fmt.Errorf("%s is invalid or missing (%s)", envName(errs[0].Field()), errs[0].Tag())
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envName maps a Config field name back to its environment variable for error messages
func envName(field string) string {
	names := map[string]string{
		"GithubClientID":     "GITHUB_CLIENT_ID",
		"GithubClientSecret": "GITHUB_CLIENT_SECRET",
		"JWTSecret":          "JWT_SECRET",
		"RedisURL":           "REDIS_URL",
		"BaseURL":            "BASE_URL",
		"FrontendURL":        "FRONTEND_URL",
		"Environment":        "ENVIRONMENT",
	}
	if name, ok := names[field]; ok {
		return name
	}
	return field
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	// Plain integers are treated as seconds, matching the EX-style TTLs
	// most deployments already use.
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
