package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"virtualcto/internal/config"
	"virtualcto/internal/repository/postgres"

	"github.com/joho/godotenv"
)

const usage = `usage: migrate [flags] <command>

commands:
  up       apply all pending migrations
  down     roll back the latest migration (or to -to VERSION)
  status   list applied and pending migrations
  reset    roll back every migration, dropping all tables
`

func main() {
	target := flag.Int64("to", 0, "target version for down")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

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

	migrator, err := postgres.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}

	ctx := context.Background()
	command := flag.Arg(0)

	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	case "status":
		err = migrator.Status(ctx)
	case "reset":
		// SAFETY: never drop tables in production
		if cfg.Environment == "prod" {
			log.Fatalf("BLOCKED: reset is not allowed in the production environment")
		}
		err = migrator.Reset(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("migration command failed", "command", command, "error", err)
		os.Exit(1)
	}
}
