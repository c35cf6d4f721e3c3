package postgres

import (
	"context"
	"fmt"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAgentRunRepository implements the AgentRunRepository interface
type PostgresAgentRunRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRunRepository creates a new agent run repository
func NewAgentRunRepository(config *RepositoryConfig) repositories.AgentRunRepository {
	return &PostgresAgentRunRepository{pool: config.Pool}
}

// Create inserts a run for an existing project
func (r *PostgresAgentRunRepository) Create(ctx context.Context, run *models.AgentRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	query := `
		INSERT INTO agent_runs (project_id, input, output, version)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		run.ProjectID,
		run.Input,
		run.Output,
		run.Version,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("project %s: %w", run.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create agent run: %w", err)
	}
	return nil
}

// ListByProject returns a project's runs, newest first
func (r *PostgresAgentRunRepository) ListByProject(ctx context.Context, projectID string) ([]models.AgentRun, error) {
	query := `
		SELECT id, project_id, input, output, version, created_at, updated_at
		FROM agent_runs
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list agent runs: %w", err)
	}
	defer rows.Close()

	runs := []models.AgentRun{}
	for rows.Next() {
		var run models.AgentRun
		if err := rows.Scan(
			&run.ID,
			&run.ProjectID,
			&run.Input,
			&run.Output,
			&run.Version,
			&run.CreatedAt,
			&run.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan agent run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent runs: %w", err)
	}
	return runs, nil
}

// DeleteByProject removes every run of a project
func (r *PostgresAgentRunRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM agent_runs WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete agent runs: %w", err)
	}
	return result.RowsAffected(), nil
}
