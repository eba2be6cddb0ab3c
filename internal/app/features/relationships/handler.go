// internal/app/features/relationships/handler.go
package relationships

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
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
	Outgoing []models.Relationship `json:"outgoing"`
	Incoming []models.Relationship `json:"incoming"`
}

// ServeList handles GET /relationships: the caller's links in both
// directions, newest first. ?status= narrows by status.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	status := models.RelationshipStatus(query.Get(r, "status"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()
	all, err := h.Data.ListRelationships(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	out := listResponse{Outgoing: []models.Relationship{}, Incoming: []models.Relationship{}}
	for _, rel := range all {
		if status != "" && rel.Status != status {
			continue
		}
		switch uid {
		case rel.UserID:
			out.Outgoing = append(out.Outgoing, rel)
		case rel.TargetUserID:
			out.Incoming = append(out.Incoming, rel)
		}
	}
	newest(out.Outgoing)
	newest(out.Incoming)
	respond.OK(w, out)
}

func newest(rs []models.Relationship) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].CreatedAt.After(rs[j].CreatedAt) })
}

type createRequest struct {
	TargetUserID string                    `json:"target_user_id"`
	Status       models.RelationshipStatus `json:"status,omitempty"`
}

// HandleCreate handles POST /relationships. The target must be a known
// user and the caller may hold only one link to each target.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createRequest
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	uid := auth.UserID(r.Context())
	target := strings.TrimSpace(in.TargetUserID)
	rel := models.NewRelationship("", uid, target, in.Status, h.Now())
	if err := rel.Validate(); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read()+timeouts.Write())
	defer cancel()

	u, err := h.Data.GetUser(ctx, target)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if u == nil {
		respond.Error(w, r, h.Log, fmt.Errorf("user %s: %w", target, apperr.ErrNotFound))
		return
	}
	all, err := h.Data.ListRelationships(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	for _, existing := range all {
		if existing.UserID == uid && existing.TargetUserID == target {
			respond.Error(w, r, h.Log, fmt.Errorf("relationship to %s: %w", target, apperr.ErrDuplicate))
			return
		}
	}

	created, err := h.Data.AddRelationship(ctx, rel)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Log.Info("relationship created",
		zap.String("relationship_id", created.ID),
		zap.String("user_id", uid),
		zap.String("target_user_id", target),
		zap.String("status", string(created.Status)))
	respond.Created(w, created)
}
