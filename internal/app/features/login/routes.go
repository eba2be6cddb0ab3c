// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// MountRoutes registers the credential endpoints on an /auth router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/signup", h.HandleSignUp)
	r.Post("/signin", h.HandleSignIn)
	r.Post("/anonymous", h.HandleAnonymous)
}
