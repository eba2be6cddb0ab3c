// internal/app/features/posts/like.go
package posts

import (
	"context"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type likeResponse struct {
	Liked bool        `json:"liked"`
	Post  models.Post `json:"post"`
}

// HandleLike handles POST /posts/{id}/like. It toggles the caller's like
// by replacing the whole post.
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	id := chi.URLParam(r, "id")

	unlock := h.lockPost(id)
	defer unlock()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read()+timeouts.Write())
	defer cancel()

	p, err := h.visiblePost(ctx, uid, id)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	liked := p.ToggleLike(uid)
	if err := h.Data.UpdatePost(ctx, *p); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Log.Debug("like toggled",
		zap.String("post_id", id),
		zap.String("user_id", uid),
		zap.Bool("liked", liked),
		zap.Int("like_count", p.LikeCount()))
	respond.OK(w, likeResponse{Liked: liked, Post: *p})
}
