package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"virtualcto/internal/auth"
	"virtualcto/internal/config"
	"virtualcto/internal/handler"
	"virtualcto/internal/middleware"
	"virtualcto/internal/repository/postgres"
	"virtualcto/internal/service"
	authsvc "virtualcto/internal/service/auth"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"jwt_algorithm", cfg.JWTAlgorithm,
		"token_ttl", cfg.AccessTokenTTL().String(),
	)
	if cfg.SecretKey == config.DefaultSecretKey && cfg.Environment != "dev" {
		logger.Warn("SECRET_KEY is the built-in default; set a real secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		migrator, err := postgres.NewMigrator(cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatalf("Failed to create migrator: %v", err)
		}
		if err := migrator.Up(ctx); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.DefaultPoolOptions)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", postgres.DefaultPoolOptions.MaxConns,
		"min_conns", postgres.DefaultPoolOptions.MinConns,
	)

	// Token signing and password hashing
	tokens, err := auth.NewJWTService(auth.TokenConfig{
		Secret:    []byte(cfg.SecretKey),
		Algorithm: cfg.JWTAlgorithm,
		TTL:       cfg.AccessTokenTTL(),
	})
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	agentRunRepo := postgres.NewAgentRunRepository(repoConfig)
	txManager := postgres.NewTransactionManager(repoConfig)

	// Create services
	authService := authsvc.NewAuthService(userRepo, tokens, hasher, logger)
	authorizer := authsvc.NewOwnerBasedAuthorizer(projectRepo)
	projectService := service.NewProjectService(projectRepo, agentRunRepo, txManager, authorizer, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Auth:    handler.NewAuthHandler(authService, logger),
		Project: handler.NewProjectHandler(projectService, logger),
		System:  handler.NewSystemHandler(postgres.NewPinger(pool), logger),
	}, middleware.RequireAuth(authService, logger))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware chain, innermost first: metrics -> recovery -> CORS
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	var h http.Handler = metrics.Middleware(mux)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   parseOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// parseOrigins splits the comma-separated CORS_ORIGINS value
func parseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
