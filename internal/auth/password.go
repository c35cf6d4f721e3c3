package auth

import (
	"errors"
	"fmt"
	"sync"

	"virtualcto/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements PasswordHasher with a fixed bcrypt cost.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewBcryptHasher creates a hasher; cost outside bcrypt's range falls back to the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare implements PasswordHasher. A mismatch is reported as
// domain.ErrInvalidCredentials; anything else is a malformed hash.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return domain.ErrInvalidCredentials
	}
	return fmt.Errorf("compare password: %w", err)
}

// DummyCompare burns the same time as a real comparison. Used when the
// user does not exist so response timing does not reveal which usernames are taken.
func (h *BcryptHasher) DummyCompare(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
