// internal/app/features/users/handler.go
package users

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/paging"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	Data dataservice.Service
	Log  *zap.Logger
	Now  func() time.Time
}

func NewHandler(data dataservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Data: data, Log: logger, Now: time.Now}
}

type listResponse struct {
	Users []models.User `json:"users"`
	Page  paging.Result `json:"page"`
}

// ServeList handles GET /users, sorted by username.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	all, err := h.Data.ListUsers(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	sort.SliceStable(all, func(i, j int) bool {
		return text.Fold(all[i].Username) < text.Fold(all[j].Username)
	})
	rows, page := paging.Page(all, paging.Parse(r))
	respond.OK(w, listResponse{Users: rows, Page: page})
}

// Stats are the profile counters shown next to a user.
type Stats struct {
	Posts         int `json:"posts"`
	ActivePosts   int `json:"active_posts"`
	LikesReceived int `json:"likes_received"`
	Groups        int `json:"groups"`
	Events        int `json:"events"`
}

type profileResponse struct {
	User   models.User `json:"user"`
	Stats  Stats       `json:"stats"`
	IsSelf bool        `json:"is_self"`
}

// ServeView handles GET /users/{id}: the user plus profile stats. The
// three store reads run concurrently.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	u, err := h.Data.GetUser(ctx, id)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if u == nil {
		respond.Error(w, r, h.Log, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound))
		return
	}

	var st Stats
	now := h.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := h.Data.ListPosts(gctx)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if p.UserID != id {
				continue
			}
			st.Posts++
			st.LikesReceived += p.LikeCount()
			if !p.IsExpired(now) {
				st.ActivePosts++
			}
		}
		return nil
	})
	g.Go(func() error {
		groups, err := h.Data.UserGroups(gctx, id)
		st.Groups = len(groups)
		return err
	})
	g.Go(func() error {
		events, err := h.Data.ListEvents(gctx)
		if err != nil {
			return err
		}
		for _, e := range events {
			if e.HasParticipant(id) {
				st.Events++
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	respond.OK(w, profileResponse{User: *u, Stats: st, IsSelf: auth.UserID(r.Context()) == id})
}
