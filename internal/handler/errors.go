package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"virtualcto/internal/domain"
	"virtualcto/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Only unexpected
// errors are logged; every domain error is an expected client outcome.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError

	switch {
	// Typed errors carry their own status and user-facing message
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		httputil.RespondError(w, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.RespondUnauthorized(w, "Incorrect username or password")
	case errors.Is(err, domain.ErrInactiveAccount):
		httputil.RespondError(w, http.StatusBadRequest, "Inactive user")
	case errors.Is(err, domain.ErrInvalidToken):
		httputil.RespondUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "Forbidden")
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
