// internal/app/features/groups/view.go
package groups

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
)

// ServeView handles GET /groups/{id}. Private groups are not found for
// non-members.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	g, err := h.Data.GetGroup(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if g == nil || !visibleTo(*g, auth.UserID(r.Context())) {
		respond.Error(w, r, h.Log, fmt.Errorf("group %s: %w", id, apperr.ErrNotFound))
		return
	}
	respond.OK(w, g)
}
