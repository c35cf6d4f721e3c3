package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/repositories"
	"virtualcto/internal/domain/services"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo  repositories.ProjectRepository
	agentRunRepo repositories.AgentRunRepository
	txManager    repositories.TransactionManager
	authorizer   services.ResourceAuthorizer
	logger       *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	agentRunRepo repositories.AgentRunRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		agentRunRepo: agentRunRepo,
		txManager:    txManager,
		authorizer:   authorizer,
		logger:       logger,
	}
}

// CreateProject creates a new project owned by req.UserID
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := &models.Project{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"user_id", req.UserID,
	)

	return project, nil
}

// ListProjects retrieves all projects for a user
func (s *projectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projectRepo.ListByUser(ctx, userID)
}

// GetProject retrieves a project the user owns
func (s *projectService) GetProject(ctx context.Context, id, userID string) (*models.Project, error) {
	return s.authorizer.CanAccessProject(ctx, userID, id)
}

// UpdateProject applies the supplied fields to a project the user owns
func (s *projectService) UpdateProject(ctx context.Context, id, userID string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.authorizer.CanAccessProject(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// Nothing supplied: return the project untouched, updated_at included
	if req.IsEmpty() {
		return project, nil
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = req.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"user_id", userID,
	)

	return project, nil
}

// DeleteProject removes a project and its agent runs in one transaction
func (s *projectService) DeleteProject(ctx context.Context, id, userID string) error {
	if _, err := s.authorizer.CanAccessProject(ctx, userID, id); err != nil {
		return err
	}

	var runsDeleted int64
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.agentRunRepo.DeleteByProject(ctx, id)
		if err != nil {
			return err
		}
		runsDeleted = n
		return s.projectRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", id,
		"user_id", userID,
		"agent_runs_deleted", runsDeleted,
	)

	return nil
}
