package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator applies the embedded schema migrations with goose.
// goose works on database/sql, so it opens its own connection through the
// pgx stdlib driver instead of borrowing from the pool.
type Migrator struct {
	dsn    string
	logger *slog.Logger
}

// NewMigrator returns a migrator for the given connection string.
func NewMigrator(dsn string, logger *slog.Logger) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("empty database dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{dsn: dsn, logger: logger}, nil
}

// Up applies pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		m.logger.Info("applying migrations")
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		version, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		m.logger.Info("migrations applied", "version", version)
		return nil
	})
}

// Down rolls back the latest migration, or down to targetVersion when it is
// positive.
func (m *Migrator) Down(ctx context.Context, targetVersion int64) error {
	return m.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		if targetVersion > 0 {
			m.logger.Info("rolling back migrations", "target", targetVersion)
			if err := goose.DownToContext(ctx, db, migrationsDir, targetVersion); err != nil {
				return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
			}
		} else {
			m.logger.Info("rolling back latest migration")
			if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
				return fmt.Errorf("rollback latest migration: %w", err)
			}
		}
		m.logger.Info("rollback complete")
		return nil
	})
}

// Status prints applied and pending migrations through goose's logger.
func (m *Migrator) Status(ctx context.Context) error {
	return m.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return nil
	})
}

func (m *Migrator) withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sql connection: %w", err)
	}

	return fn(ctx, db)
}

// Reset rolls back every migration.
func (m *Migrator) Reset(ctx context.Context) error {
	return m.withDB(ctx, func(ctx context.Context, db *sql.DB) error {
		m.logger.Warn("resetting schema")
		if err := goose.ResetContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("reset migrations: %w", err)
		}
		return nil
	})
}
