package handler

import "net/http"

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Auth    *AuthHandler
	Project *ProjectHandler
	System  *SystemHandler
}

// RegisterRoutes wires the API onto mux. requireAuth guards every route
// that needs a current user.
func RegisterRoutes(mux *http.ServeMux, h Handlers, requireAuth func(http.Handler) http.Handler) {
	protected := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}

	// System
	mux.HandleFunc("GET /{$}", h.System.Welcome)
	mux.HandleFunc("GET /health", h.System.Health)

	// Auth
	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.Handle("POST /auth/logout", protected(h.Auth.Logout))
	mux.Handle("GET /auth/me", protected(h.Auth.Me))

	// Projects
	mux.Handle("GET /projects", protected(h.Project.ListProjects))
	mux.Handle("POST /projects", protected(h.Project.CreateProject))
	mux.Handle("GET /projects/{id}", protected(h.Project.GetProject))
	mux.Handle("PUT /projects/{id}", protected(h.Project.UpdateProject))
	mux.Handle("PATCH /projects/{id}", protected(h.Project.UpdateProject))
	mux.Handle("DELETE /projects/{id}", protected(h.Project.DeleteProject))
}
