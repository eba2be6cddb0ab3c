// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /me and GET /me/logins on an /auth router. The
// handlers check the session themselves, so no auth middleware is needed.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/me", h.ServeMe)
	r.Get("/me/logins", h.ServeLogins)
}
