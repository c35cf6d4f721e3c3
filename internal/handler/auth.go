package handler

import (
	"log/slog"
	"net/http"

	"virtualcto/internal/domain/services"
	"virtualcto/internal/httputil"
)

// AuthHandler handles registration, login and the current-user endpoints
type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an account and returns its first token
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := httputil.ParseCredentials(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	_, token, err := h.authService.Register(r.Context(), &services.RegisterRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, token)
}

// Login exchanges a username and password for a token.
// Accepts the OAuth2 password form as well as JSON.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := httputil.ParseCredentials(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	_, token, err := h.authService.Authenticate(r.Context(), &services.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, token)
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its token; it remains valid until it expires.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("user logged out", "user_id", httputil.GetUserID(r))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully logged out",
	})
}

// Me returns the authenticated user
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, httputil.GetUser(r))
}
