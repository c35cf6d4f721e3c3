// Package memory holds map-backed repositories used by service and handler
// tests. They honour the same error contracts as the Postgres repositories.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/repositories"

	"github.com/google/uuid"
)

// Store is a shared in-memory database. Deleting a project also removes its
// runs, mirroring the ON DELETE CASCADE foreign key.
type Store struct {
	mu       sync.Mutex
	users    map[string]models.User
	projects map[string]models.Project
	runs     map[string]models.AgentRun
	seq      int64
	now      func() time.Time
}

// NewStore returns an empty store. Timestamps advance by one microsecond per
// write so "newest first" ordering is deterministic.
func NewStore() *Store {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Store{
		users:    make(map[string]models.User),
		projects: make(map[string]models.Project),
		runs:     make(map[string]models.AgentRun),
	}
	s.now = func() time.Time {
		s.seq++
		return base.Add(time.Duration(s.seq) * time.Microsecond)
	}
	return s
}

// Users returns the store as a UserRepository
func (s *Store) Users() repositories.UserRepository { return &userRepo{s} }

// Projects returns the store as a ProjectRepository
func (s *Store) Projects() repositories.ProjectRepository { return &projectRepo{s} }

// AgentRuns returns the store as an AgentRunRepository
func (s *Store) AgentRuns() repositories.AgentRunRepository { return &agentRunRepo{s} }

// TxManager returns a transaction manager that simply runs fn.
func (s *Store) TxManager() repositories.TransactionManager { return txManager{} }

// SetActive flips a user's active flag.
func (s *Store) SetActive(userID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.IsActive = active
		s.users[userID] = u
	}
}

// RunCount reports how many runs reference projectID.
func (s *Store) RunCount(projectID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.runs {
		if r.ProjectID == projectID {
			n++
		}
	}
	return n
}

type txManager struct{}

func (txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("create user %q: %w", user.Username, domain.ErrUsernameTaken)
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[project.UserID]; !ok {
		return fmt.Errorf("owner %s: %w", project.UserID, domain.ErrNotFound)
	}
	project.ID = uuid.NewString()
	project.CreatedAt = r.s.now()
	project.UpdatedAt = project.CreatedAt
	r.s.projects[project.ID] = *project
	return nil
}

func (r *projectRepo) GetByIDOnly(_ context.Context, id string) (*models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *projectRepo) ListByUser(_ context.Context, userID string) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	projects := []models.Project{}
	for _, p := range r.s.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *projectRepo) Update(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[project.ID]; !ok {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	project.UpdatedAt = r.s.now()
	r.s.projects[project.ID] = *project
	return nil
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.projects, id)
	for runID, run := range r.s.runs {
		if run.ProjectID == id {
			delete(r.s.runs, runID)
		}
	}
	return nil
}

type agentRunRepo struct{ s *Store }

func (r *agentRunRepo) Create(_ context.Context, run *models.AgentRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[run.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", run.ProjectID, domain.ErrNotFound)
	}
	run.ID = uuid.NewString()
	run.CreatedAt = r.s.now()
	run.UpdatedAt = run.CreatedAt
	r.s.runs[run.ID] = *run
	return nil
}

func (r *agentRunRepo) ListByProject(_ context.Context, projectID string) ([]models.AgentRun, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	runs := []models.AgentRun{}
	for _, run := range r.s.runs {
		if run.ProjectID == projectID {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

func (r *agentRunRepo) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, run := range r.s.runs {
		if run.ProjectID == projectID {
			delete(r.s.runs, id)
			n++
		}
	}
	return n, nil
}
