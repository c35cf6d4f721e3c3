package auth

import (
	"time"

	"virtualcto/internal/domain/models"
)

// TokenService issues and verifies signed, time-limited bearer tokens.
// Validity is purely a function of signature and expiry; there is no revocation.
type TokenService interface {
	// Issue signs a token for subject that expires ttl from now.
	// A non-positive ttl falls back to the configured default lifetime.
	Issue(subject string, ttl time.Duration) (string, error)

	// Verify validates a token string and returns its claims.
	// Returns domain.ErrInvalidToken if the token is malformed, forged or expired.
	Verify(tokenString string) (*models.TokenClaims, error)
}

// PasswordHasher performs one-way salted password hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns nil only when password matches hash.
	// Comparison time does not depend on where the inputs differ.
	Compare(hash, password string) error

	// DummyCompare costs as much as Compare and always fails.
	DummyCompare(password string)
}
