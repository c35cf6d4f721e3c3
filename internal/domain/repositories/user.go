package repositories

import (
	"context"

	"virtualcto/internal/domain/models"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts a user and fills in ID and CreatedAt.
	// Returns domain.ErrUsernameTaken when the username is already in use.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername looks a user up by exact, case-sensitive username.
	// Returns domain.ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID retrieves a user by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// ExistsByUsername reports whether the username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
