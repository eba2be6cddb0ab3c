// internal/app/features/migrate/routes.go
package migrate

import (
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/migrate", h.HandleMigrate)
	})
	return r
}
