// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/paging"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

type listResponse struct {
	Groups []models.Group `json:"groups"`
	Page   paging.Result  `json:"page"`
}

// visibleTo reports whether uid may see g.
func visibleTo(g models.Group, uid string) bool {
	return g.Visibility == models.VisibilityPublic || g.HasMember(uid)
}

func sortByName(gs []models.Group) {
	sort.SliceStable(gs, func(i, j int) bool {
		return text.Fold(gs[i].Name) < text.Fold(gs[j].Name)
	})
}

// ServeList handles GET /groups: public groups plus the caller's own,
// sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	all, err := h.Data.ListGroups(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	out := make([]models.Group, 0, len(all))
	for _, g := range all {
		if visibleTo(g, uid) {
			out = append(out, g)
		}
	}
	sortByName(out)
	rows, page := paging.Page(out, paging.Parse(r))
	respond.OK(w, listResponse{Groups: rows, Page: page})
}

// ServeMine handles GET /groups/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	mine, err := h.Data.UserGroups(ctx, auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	sortByName(mine)
	respond.OK(w, map[string]any{"groups": mine})
}
