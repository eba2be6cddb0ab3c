// internal/app/features/posts/list.go
package posts

import (
	"context"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/feed"
	"github.com/dalemusser/photoshare/internal/app/system/paging"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type listResponse struct {
	Posts []models.Post  `json:"posts"`
	Page  paging.Result `json:"page"`
}

// ServeList handles GET /posts.
//
// Query: group_id, event_id, author, include_expired=true, start, limit.
// Only unexpired posts the caller may see are returned, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	opts := feed.Options{
		GroupID:        query.Get(r, "group_id"),
		EventID:        query.Get(r, "event_id"),
		AuthorID:       query.Get(r, "author"),
		IncludeExpired: query.Get(r, "include_expired") == "true",
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()
	all, err := feed.For(ctx, h.Data, uid, h.now(), opts)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	rows, page := paging.Page(all, paging.Parse(r))
	respond.OK(w, listResponse{Posts: rows, Page: page})
}
