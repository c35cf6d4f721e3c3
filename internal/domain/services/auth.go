package services

import (
	"context"

	"virtualcto/internal/config"
	"virtualcto/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RegisterRequest carries the credentials for a new account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest carries the credentials for an existing account
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements validation.Validatable
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			validation.RuneLength(1, config.MaxUsernameLength),
			validation.By(notBlank),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, config.MaxPasswordLength),
		),
	)
}

// Validate implements validation.Validatable
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthService handles registration, login and token-to-identity resolution.
type AuthService interface {
	// Register creates an active user and logs them in.
	// Fails with domain.ErrUsernameTaken if the username exists.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, *models.AccessToken, error)

	// Authenticate checks credentials and issues a token.
	// Fails with domain.ErrInvalidCredentials or domain.ErrInactiveAccount.
	Authenticate(ctx context.Context, req *LoginRequest) (*models.User, *models.AccessToken, error)

	// ResolveToken verifies a bearer token and loads the active user it names.
	// Fails with domain.ErrInvalidToken or domain.ErrInactiveAccount.
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// Ownership is the outcome of resolving a project against a requesting user.
type Ownership int

const (
	OwnershipNotFound Ownership = iota
	OwnershipNotOwned
	OwnershipOwned
)

// ResourceAuthorizer decides whether a user may act on a resource.
// Services call it before operating on resources.
type ResourceAuthorizer interface {
	// ResolveProject loads a project and classifies it relative to userID.
	// The project is nil only for OwnershipNotFound.
	ResolveProject(ctx context.Context, userID, projectID string) (*models.Project, Ownership, error)

	// CanAccessProject returns domain.ErrNotFound or domain.ErrForbidden
	// unless userID owns the project.
	CanAccessProject(ctx context.Context, userID, projectID string) (*models.Project, error)
}
