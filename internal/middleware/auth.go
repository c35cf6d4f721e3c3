package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"virtualcto/internal/domain"
	"virtualcto/internal/domain/services"
	"virtualcto/internal/httputil"
)

var errMissingToken = errors.New("missing bearer token")

// RequireAuth resolves the bearer token to an active user and stores it in
// the request context. Missing or invalid tokens get a 401 with a Bearer
// challenge; a valid token for an inactive user gets a 400.
func RequireAuth(authService services.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Debug("authorization header rejected", "error", err, "path", r.URL.Path)
				httputil.RespondUnauthorized(w, "Not authenticated")
				return
			}

			user, err := authService.ResolveToken(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrInvalidToken):
					logger.Debug("token rejected", "error", err, "path", r.URL.Path)
					httputil.RespondUnauthorized(w, "Could not validate credentials")
				case errors.Is(err, domain.ErrInactiveAccount):
					httputil.RespondError(w, http.StatusBadRequest, "Inactive user")
				default:
					logger.Error("token resolution failed", "error", err, "path", r.URL.Path)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, user))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
