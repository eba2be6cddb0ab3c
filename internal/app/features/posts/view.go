// internal/app/features/posts/view.go
package posts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/feed"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// visiblePost loads id and checks the caller may see it. Posts the caller
// may not see, and expired posts of other authors, are reported as not
// found so their existence does not leak.
func (h *Handler) visiblePost(ctx context.Context, uid, id string) (*models.Post, error) {
	p, err := h.Data.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	missing := fmt.Errorf("post %s: %w", id, apperr.ErrNotFound)
	if p == nil {
		return nil, missing
	}
	if p.UserID != uid && p.IsExpired(h.now()) {
		return nil, missing
	}
	aud, err := feed.NewAudience(ctx, h.Data, uid)
	if err != nil {
		return nil, err
	}
	if !aud.CanSee(*p) {
		return nil, missing
	}
	return p, nil
}

// ServeView handles GET /posts/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	p, err := h.visiblePost(ctx, auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, p)
}
