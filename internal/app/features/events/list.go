// internal/app/features/events/list.go
package events

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/paging"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type listResponse struct {
	Events []models.Event `json:"events"`
	Page   paging.Result  `json:"page"`
}

// upcoming reports whether e has not finished at now. Events without an
// end time count as finished once they have started a day ago.
func upcoming(e models.Event, now time.Time) bool {
	if e.EndTime != nil {
		return e.EndTime.After(now)
	}
	return e.StartTime.Add(24 * time.Hour).After(now)
}

func (h *Handler) list(ctx context.Context, r *http.Request, keep func(models.Event) bool) ([]models.Event, error) {
	all, err := h.Data.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	onlyUpcoming := query.Get(r, "upcoming") == "true"
	now := h.now()
	out := make([]models.Event, 0, len(all))
	for _, e := range all {
		if keep(e) && (!onlyUpcoming || upcoming(e, now)) {
			out = append(out, e)
		}
	}
	byStart(out)
	return out, nil
}

// ServeList handles GET /events: public events plus those the caller
// takes part in. ?upcoming=true drops finished events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	out, err := h.list(ctx, r, func(e models.Event) bool { return visibleTo(e, uid) })
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	rows, page := paging.Page(out, paging.Parse(r))
	respond.OK(w, listResponse{Events: rows, Page: page})
}

// ServeMine handles GET /events/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	out, err := h.list(ctx, r, func(e models.Event) bool { return e.HasParticipant(uid) })
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, map[string]any{"events": out})
}
