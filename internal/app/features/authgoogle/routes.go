// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// MountRoutes registers POST /google on an /auth router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/google", h.HandleToken)
}
