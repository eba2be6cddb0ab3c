// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// MountRoutes registers POST /signout on an /auth router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/signout", h.HandleSignOut)
}
