package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// INTEGRATION TESTS - require TEST_DATABASE_URL
// ============================================================================

func setupRepos(t *testing.T) *RepositoryConfig {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	migrator, err := NewMigrator(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, migrator.Up(ctx))

	pool, err := CreateConnectionPool(ctx, dsn, PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &RepositoryConfig{Pool: pool}
}

func createUser(t *testing.T, cfg *RepositoryConfig) *models.User {
	t.Helper()
	user := &models.User{
		Username:     "user-" + uuid.NewString(),
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, NewUserRepository(cfg).Create(context.Background(), user))
	t.Cleanup(func() {
		_, _ = cfg.Pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	cfg := setupRepos(t)
	ctx := context.Background()
	repo := NewUserRepository(cfg)

	user := createUser(t, cfg)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byName, err := repo.GetByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.True(t, byName.IsActive)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, byID.Username)

	exists, err := repo.ExistsByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &models.User{Username: user.Username, PasswordHash: "other", IsActive: true}
	err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepository_Lifecycle(t *testing.T) {
	cfg := setupRepos(t)
	ctx := context.Background()
	repo := NewProjectRepository(cfg)
	owner := createUser(t, cfg)

	desc := "first"
	first := &models.Project{UserID: owner.ID, Name: "One", Description: &desc}
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(10 * time.Millisecond)
	second := &models.Project{UserID: owner.ID, Name: "Two"}
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	first.Name = "Renamed"
	first.Description = nil
	require.NoError(t, repo.Update(ctx, first))

	got, err := repo.GetByIDOnly(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Nil(t, got.Description)
	assert.Equal(t, owner.ID, got.UserID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByIDOnly(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), domain.ErrNotFound)
}

func TestAgentRunRepository_CascadeInTransaction(t *testing.T) {
	cfg := setupRepos(t)
	ctx := context.Background()
	projects := NewProjectRepository(cfg)
	runs := NewAgentRunRepository(cfg)
	tm := NewTransactionManager(cfg)
	owner := createUser(t, cfg)

	project := &models.Project{UserID: owner.ID, Name: "With runs"}
	require.NoError(t, projects.Create(ctx, project))

	for i := 0; i < 3; i++ {
		require.NoError(t, runs.Create(ctx, &models.AgentRun{ProjectID: project.ID}))
	}

	listed, err := runs.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	var deleted int64
	err = tm.ExecTx(ctx, func(ctx context.Context) error {
		n, err := runs.DeleteByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		deleted = n
		return projects.Delete(ctx, project.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	listed, err = runs.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	cfg := setupRepos(t)
	ctx := context.Background()
	projects := NewProjectRepository(cfg)
	tm := NewTransactionManager(cfg)
	owner := createUser(t, cfg)

	project := &models.Project{UserID: owner.ID, Name: "Survives"}
	require.NoError(t, projects.Create(ctx, project))

	boom := errors.New("boom")
	err := tm.ExecTx(ctx, func(ctx context.Context) error {
		require.NoError(t, projects.Delete(ctx, project.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = projects.GetByIDOnly(ctx, project.ID)
	assert.NoError(t, err)
}

func TestAgentRunRepository_UnknownProject(t *testing.T) {
	cfg := setupRepos(t)
	err := NewAgentRunRepository(cfg).Create(context.Background(), &models.AgentRun{ProjectID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAgentRunRepository_RejectsLongVersionBeforeQuery(t *testing.T) {
	// no pool: validation must fail before any query is attempted
	repo := NewAgentRunRepository(&RepositoryConfig{})
	version := strings.Repeat("v", 51)
	err := repo.Create(context.Background(), &models.AgentRun{ProjectID: uuid.NewString(), Version: &version})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPinger(t *testing.T) {
	cfg := setupRepos(t)
	assert.NoError(t, NewPinger(cfg.Pool).Ping(context.Background()))
}

