// internal/app/features/events/view.go
package events

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

// ServeView handles GET /events/{id}. Private events are not found for
// non-participants.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	e, err := h.Data.GetEvent(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if e == nil || !visibleTo(*e, auth.UserID(r.Context())) {
		respond.Error(w, r, h.Log, fmt.Errorf("event %s: %w", id, apperr.ErrNotFound))
		return
	}
	respond.OK(w, e)
}
