package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/benvon/gh-auth-gateway/internal/config"
	"github.com/benvon/gh-auth-gateway/internal/github"
	"github.com/benvon/gh-auth-gateway/internal/handlers"
	"github.com/benvon/gh-auth-gateway/internal/logger"
	"github.com/benvon/gh-auth-gateway/internal/middleware"
	"github.com/benvon/gh-auth-gateway/internal/store"
	"github.com/benvon/gh-auth-gateway/internal/telemetry"
	"github.com/benvon/gh-auth-gateway/internal/token"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_gateway",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("callback_url", cfg.CallbackURL()),
		zap.String("environment", cfg.Environment),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "gh-auth-gateway", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tp.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to the credential store
	credStore, err := store.New(cfg.RedisURL, cfg.Environment)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_credential_store", zap.Error(err))
	}
	defer func() {
		if err := credStore.Close(); err != nil {
			zapLogger.Warn("failed_to_close_credential_store", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_credential_store")

	// Initialize the session token codec and the GitHub OAuth client
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	githubClient := github.NewClient(cfg.GithubClientID, cfg.GithubClientSecret, cfg.CallbackURL())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(githubClient, credStore, codec, cfg.FrontendURL, cfg.SessionTTL, zapLogger)
	repoHandler := handlers.NewRepoHandler(githubClient, credStore, zapLogger)
	healthChecker := handlers.NewHealthChecker(credStore)

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("gh-auth-gateway"))
	}
	r.Use(middleware.SecurityHeaders(cfg.Environment == "production"))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	rateLimitMW, err := middleware.RateLimit(credStore.Client(), cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}
	authMW := middleware.Auth(codec, zapLogger)

	// OAuth flow routes (rate limited, unauthenticated)
	r.Handle("/login/github", rateLimitMW(http.HandlerFunc(authHandler.Login))).Methods("GET")
	r.Handle("/auth/github/callback", rateLimitMW(http.HandlerFunc(authHandler.Callback))).Methods("GET")
	r.Handle("/refresh", rateLimitMW(http.HandlerFunc(authHandler.Refresh))).Methods("GET")

	// Session routes
	r.Handle("/me", authMW(http.HandlerFunc(authHandler.Me))).Methods("GET")
	r.Handle("/github/private", authMW(http.HandlerFunc(repoHandler.PrivateRepos))).Methods("GET")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Health and documentation
	r.HandleFunc("/health/redis", healthChecker.Redis).Methods("GET")
	handlers.NewOpenAPIHandler("api/openapi/openapi.yaml").RegisterRoutes(r)

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
