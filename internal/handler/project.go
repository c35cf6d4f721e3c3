package handler

import (
	"log/slog"
	"net/http"

	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/services"
	"virtualcto/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ProjectListResponse is the body of GET /projects
type ProjectListResponse struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

// ListProjects retrieves all projects for the user
// GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	projects, err := h.projectService.ListProjects(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ProjectListResponse{
		Projects: projects,
		Total:    len(projects),
	})
}

// CreateProject creates a new project
// POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	req.UserID = httputil.GetUserID(r)

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID
// GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// UpdateProject applies a partial update; null fields are left unchanged
// PUT /projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.UpdateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project and its agent runs
// DELETE /projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}
