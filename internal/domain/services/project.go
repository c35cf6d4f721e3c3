package services

import (
	"context"
	"errors"
	"strings"

	"virtualcto/internal/config"
	"virtualcto/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	UserID      string  `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateProjectRequest is a partial update. A nil field, whether the key
// was absent or sent as null, leaves the stored value untouched.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Validate implements validation.Validatable
func (r *CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxProjectNameLength),
			validation.By(notBlank),
		),
	)
}

// Validate implements validation.Validatable
func (r *UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty,
			validation.RuneLength(1, config.MaxProjectNameLength),
			validation.By(notBlank),
		),
	)
}

// IsEmpty reports whether the update would change nothing.
func (r *UpdateProjectRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil
}

// ProjectService defines ownership-checked operations on projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// ListProjects returns the user's projects, newest first
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)

	// GetProject fails with domain.ErrNotFound if the project does not exist
	// and domain.ErrForbidden if it belongs to another user
	GetProject(ctx context.Context, id, userID string) (*models.Project, error)

	// UpdateProject applies only the supplied fields
	UpdateProject(ctx context.Context, id, userID string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject removes the project and all of its agent runs
	DeleteProject(ctx context.Context, id, userID string) error
}

// notBlank rejects names that are only whitespace
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return errors.New("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
