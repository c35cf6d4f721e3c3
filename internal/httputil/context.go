package httputil

import (
	"context"
	"net/http"

	"virtualcto/internal/domain/models"
)

type userContextKey struct{}

// WithUser attaches the authenticated user to the request context
func WithUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey{}, user)
	return r.WithContext(ctx)
}

// GetUser returns the authenticated user, or nil outside RequireAuth
func GetUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey{}).(*models.User)
	return user
}

// GetUserID returns the authenticated user's ID, or "" if there is none
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}
