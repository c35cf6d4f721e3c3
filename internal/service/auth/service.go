package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authn "virtualcto/internal/auth"
	"virtualcto/internal/domain"
	"virtualcto/internal/domain/models"
	"virtualcto/internal/domain/repositories"
	"virtualcto/internal/domain/services"
)

// authService implements the AuthService interface
type authService struct {
	userRepo repositories.UserRepository
	tokens   authn.TokenService
	hasher   authn.PasswordHasher
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens authn.TokenService,
	hasher authn.PasswordHasher,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register creates an active user and issues its first token.
func (s *authService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, *models.AccessToken, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, domain.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		IsActive:     true,
	}

	// A concurrent registration can still win between the check and the
	// insert; the repository reports that as ErrUsernameTaken too.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	return user, token, nil
}

// Authenticate checks a username and password and issues a token.
func (s *authService) Authenticate(ctx context.Context, req *services.LoginRequest) (*models.User, *models.AccessToken, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same time as a real comparison so response timing
			// does not reveal which usernames exist.
			s.hasher.DummyCompare(req.Password)
			s.logger.Debug("login rejected", "reason", "unknown username")
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Debug("login rejected", "reason", "password mismatch", "user_id", user.ID)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, domain.ErrInactiveAccount
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// ResolveToken maps a bearer token onto the active user it names.
func (s *authService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Username())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("subject no longer exists: %w", domain.ErrInvalidToken)
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*models.AccessToken, error) {
	signed, err := s.tokens.Issue(user.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return models.NewAccessToken(signed), nil
}
