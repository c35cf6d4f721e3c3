package repositories

import (
	"context"

	"virtualcto/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create creates a new project and returns it with generated ID and timestamps
	Create(ctx context.Context, project *models.Project) error

	// GetByIDOnly retrieves a project by ID without ownership scoping.
	// Ownership is decided by the caller so that "missing" and "not yours"
	// stay distinguishable.
	GetByIDOnly(ctx context.Context, id string) (*models.Project, error)

	// ListByUser retrieves all projects for a user, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Project, error)

	// Update persists name and description and refreshes updated_at
	Update(ctx context.Context, project *models.Project) error

	// Delete hard-deletes a project row
	Delete(ctx context.Context, id string) error
}
