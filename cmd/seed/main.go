package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"virtualcto/internal/auth"
	"virtualcto/internal/config"
	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/services"
	"virtualcto/internal/repository/postgres"
	"virtualcto/internal/service"
	authsvc "virtualcto/internal/service/auth"

	"github.com/joho/godotenv"
)

// demoRuns are attached to every seeded project
var demoRuns = []struct {
	input, output, version string
}{
	{"Draft an architecture for a todo app", "Three services behind a gateway", "v1"},
	{"Pick a database", "PostgreSQL with a single schema", "v1"},
	{"Estimate the MVP", "Two sprints", "v2"},
}

func main() {
	username := flag.String("username", "demo", "Username of the demo account")
	password := flag.String("password", "demo-password", "Password of the demo account")
	projects := flag.Int("projects", 2, "Number of demo projects to create")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: demo accounts must never land in production
	if cfg.Environment == "prod" {
		log.Fatalf("BLOCKED: seeding is not allowed in the production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()

	migrator, err := postgres.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Up(ctx); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tokens, err := auth.NewJWTService(auth.TokenConfig{
		Secret:    []byte(cfg.SecretKey),
		Algorithm: cfg.JWTAlgorithm,
		TTL:       cfg.AccessTokenTTL(),
	})
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	agentRunRepo := postgres.NewAgentRunRepository(repoConfig)
	txManager := postgres.NewTransactionManager(repoConfig)

	authService := authsvc.NewAuthService(userRepo, tokens, auth.NewBcryptHasher(cfg.BcryptCost), logger)
	projectService := service.NewProjectService(
		projectRepo, agentRunRepo, txManager, authsvc.NewOwnerBasedAuthorizer(projectRepo), logger)

	user, token, err := authService.Register(ctx, &services.RegisterRequest{Username: *username, Password: *password})
	if errors.Is(err, domain.ErrUsernameTaken) {
		logger.Info("demo user exists, logging in", "username", *username)
		user, token, err = authService.Authenticate(ctx, &services.LoginRequest{Username: *username, Password: *password})
	}
	if err != nil {
		log.Fatalf("Failed to prepare demo user: %v", err)
	}

	for i := 1; i <= *projects; i++ {
		description := "Seeded demo project"
		project, err := projectService.CreateProject(ctx, &services.CreateProjectRequest{
			UserID:      user.ID,
			Name:        fmt.Sprintf("Demo project %d", i),
			Description: &description,
		})
		if err != nil {
			log.Fatalf("Failed to create project: %v", err)
		}

		err = txManager.ExecTx(ctx, func(ctx context.Context) error {
			for _, r := range demoRuns {
				run := &models.AgentRun{
					ProjectID: project.ID,
					Input:     &r.input,
					Output:    &r.output,
					Version:   &r.version,
				}
				if err := agentRunRepo.Create(ctx, run); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to create agent runs: %v", err)
		}

		logger.Info("seeded project", "project_id", project.ID, "agent_runs", len(demoRuns))
	}

	logger.Info("seed complete",
		"username", user.Username,
		"user_id", user.ID,
		"token_type", token.TokenType,
	)
}
