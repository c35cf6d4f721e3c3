package auth

import (
	"context"
	"errors"
	"fmt"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/repositories"
	"virtualcto/internal/domain/services"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a project only if they created it; agent runs inherit
// access from their project.
type OwnerBasedAuthorizer struct {
	projectRepo repositories.ProjectRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(projectRepo repositories.ProjectRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{projectRepo: projectRepo}
}

var _ services.ResourceAuthorizer = (*OwnerBasedAuthorizer)(nil)

// ResolveProject loads the project by ID alone and classifies it against
// userID, keeping "does not exist" apart from "not yours".
func (a *OwnerBasedAuthorizer) ResolveProject(ctx context.Context, userID, projectID string) (*models.Project, services.Ownership, error) {
	project, err := a.projectRepo.GetByIDOnly(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, services.OwnershipNotFound, nil
		}
		return nil, services.OwnershipNotFound, fmt.Errorf("resolve project: %w", err)
	}

	if !project.IsOwnedBy(userID) {
		return project, services.OwnershipNotOwned, nil
	}
	return project, services.OwnershipOwned, nil
}

// CanAccessProject checks if user owns the project
func (a *OwnerBasedAuthorizer) CanAccessProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	project, ownership, err := a.ResolveProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	switch ownership {
	case services.OwnershipNotFound:
		return nil, &domain.NotFoundError{Message: "Project not found"}
	case services.OwnershipNotOwned:
		return nil, &domain.ForbiddenError{Message: "Access denied to this project"}
	default:
		return project, nil
	}
}
