package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")

	// Authentication failures
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveAccount    = errors.New("inactive user")
	ErrInvalidToken       = errors.New("could not validate credentials")
)

// Domain error types implementing HTTPError. Each matches its sentinel via
// errors.Is so callers can use either form.
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// ForbiddenError indicates the resource exists but belongs to someone else
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string  { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }
func (e *ForbiddenError) StatusCode() int  { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ForbiddenError) Is(target error) bool  { return target == ErrForbidden }
