package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"virtualcto/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"typed not found", fmt.Errorf("get: %w", &domain.NotFoundError{Message: "Project not found"}), http.StatusNotFound, "Project not found"},
		{"typed forbidden", &domain.ForbiddenError{Message: "Access denied to this project"}, http.StatusForbidden, "Access denied to this project"},
		{"typed validation", &domain.ValidationError{Message: "invalid JSON: EOF"}, http.StatusUnprocessableEntity, "invalid JSON: EOF"},
		{"wrapped validation", fmt.Errorf("%w: version too long", domain.ErrValidation), http.StatusUnprocessableEntity, "validation failed: version too long"},
		{"username taken", fmt.Errorf("create user: %w", domain.ErrUsernameTaken), http.StatusBadRequest, "Username already taken"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect username or password"},
		{"inactive", domain.ErrInactiveAccount, http.StatusBadRequest, "Inactive user"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "Could not validate credentials"},
		{"bare not found", domain.ErrNotFound, http.StatusNotFound, "Resource not found"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleError(w, logger, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDetail, problemDetail(t, w))
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
