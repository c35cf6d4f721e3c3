package repositories

import (
	"context"

	"virtualcto/internal/domain/models"
)

// AgentRunRepository stores the run records that hang off a project.
type AgentRunRepository interface {
	Create(ctx context.Context, run *models.AgentRun) error

	// ListByProject returns runs newest first
	ListByProject(ctx context.Context, projectID string) ([]models.AgentRun, error)

	// DeleteByProject removes every run of a project and returns how many went
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}
