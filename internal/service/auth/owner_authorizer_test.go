package auth

import (
	"context"
	"testing"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/services"
	"virtualcto/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerBasedAuthorizer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	owner := &models.User{Username: "owner", IsActive: true}
	require.NoError(t, store.Users().Create(ctx, owner))
	project := &models.Project{UserID: owner.ID, Name: "p"}
	require.NoError(t, store.Projects().Create(ctx, project))

	authz := NewOwnerBasedAuthorizer(store.Projects())
	stranger := uuid.NewString()

	tests := []struct {
		name      string
		userID    string
		projectID string
		ownership services.Ownership
		wantErr   error
	}{
		{name: "owner", userID: owner.ID, projectID: project.ID, ownership: services.OwnershipOwned},
		{name: "other user", userID: stranger, projectID: project.ID, ownership: services.OwnershipNotOwned, wantErr: domain.ErrForbidden},
		{name: "missing project", userID: owner.ID, projectID: uuid.NewString(), ownership: services.OwnershipNotFound, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ownership, err := authz.ResolveProject(ctx, tt.userID, tt.projectID)
			require.NoError(t, err)
			assert.Equal(t, tt.ownership, ownership)

			p, err := authz.CanAccessProject(ctx, tt.userID, tt.projectID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, project.ID, p.ID)
		})
	}
}
