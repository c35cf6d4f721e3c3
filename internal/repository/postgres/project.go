package postgres

import (
	"context"
	"fmt"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{pool: config.Pool}
}

const projectColumns = `id, user_id, name, description, created_at, updated_at`

// Create creates a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.UserID,
		project.Name,
		project.Description,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("owner %s: %w", project.UserID, domain.ErrNotFound)
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByIDOnly retrieves a project by ID without ownership scoping
func (r *PostgresProjectRepository) GetByIDOnly(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	project, err := scanProject(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// ListByUser retrieves all projects for a user, ordered by created_at DESC
func (r *PostgresProjectRepository) ListByUser(ctx context.Context, userID string) ([]models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// Update persists name and description
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.ID,
	).Scan(&project.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete hard-deletes a project. agent_runs rows go with it via ON DELETE CASCADE.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
