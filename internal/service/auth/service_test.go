package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	authn "virtualcto/internal/auth"
	"virtualcto/internal/domain"
	"virtualcto/internal/domain/services"
	"virtualcto/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (services.AuthService, *memory.Store, *authn.JWTService) {
	t.Helper()
	tokens, err := authn.NewJWTService(authn.TokenConfig{
		Secret:    []byte("test-secret"),
		Algorithm: "HS256",
		TTL:       time.Hour,
	})
	require.NoError(t, err)

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthService(store.Users(), tokens, authn.NewBcryptHasher(bcrypt.MinCost), logger)
	return svc, store, tokens
}

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, &services.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.Equal(t, "bearer", token.TokenType)

	claims, err := tokens.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &services.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, &services.RegisterRequest{Username: "alice", Password: "different"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	// Usernames are case-sensitive
	_, _, err = svc.Register(ctx, &services.RegisterRequest{Username: "Alice", Password: "pw1"})
	assert.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name string
		req  services.RegisterRequest
	}{
		{name: "empty username", req: services.RegisterRequest{Password: "pw"}},
		{name: "blank username", req: services.RegisterRequest{Username: "   ", Password: "pw"}},
		{name: "empty password", req: services.RegisterRequest{Username: "bob"}},
		{name: "password over bcrypt limit", req: services.RegisterRequest{Username: "bob", Password: string(make([]byte, 73))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, &services.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, token, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "alice", Password: "pw1"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "alice", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "mallory", Password: "pw1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("username match is exact", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "ALICE", Password: "pw1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("inactive account with correct password", func(t *testing.T) {
		store.SetActive(registered.ID, false)
		defer store.SetActive(registered.ID, true)

		_, _, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "alice", Password: "pw1"})
		assert.ErrorIs(t, err, domain.ErrInactiveAccount)
	})

	t.Run("inactive account with wrong password", func(t *testing.T) {
		store.SetActive(registered.ID, false)
		defer store.SetActive(registered.ID, true)

		_, _, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "alice", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, &services.LoginRequest{Username: "alice"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestResolveToken(t *testing.T) {
	svc, store, tokens := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, &services.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	resolved, err := svc.ResolveToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.ResolveToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// Well-signed token for a subject that was never registered
	orphan, err := tokens.Issue("ghost", 0)
	require.NoError(t, err)
	_, err = svc.ResolveToken(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	expired, err := tokens.WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}).Issue("alice", 0)
	require.NoError(t, err)
	_, err = svc.ResolveToken(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	store.SetActive(user.ID, false)
	_, err = svc.ResolveToken(ctx, token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)
}
