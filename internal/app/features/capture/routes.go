// internal/app/features/capture/routes.go
package capture

import (
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleStart)
		pr.Get("/{sid}", h.ServeSession)
		pr.Delete("/{sid}", h.HandleClose)
		pr.Post("/{sid}/photo", h.HandlePhoto)
		pr.Put("/{sid}/draft", h.HandleDraft)
		pr.Post("/{sid}/publish", h.HandlePublish)
		pr.Post("/{sid}/flip", h.HandleFlip)
	})
	return r
}
