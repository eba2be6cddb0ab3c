// internal/app/features/events/new.go
package events

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/htmlsanitize"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.uber.org/zap"
)

const (
	maxNameLength        = 80
	maxDescriptionLength = 500
	maxLocationLength    = 200
)

type createRequest struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      *time.Time        `json:"end_time,omitempty"`
	Location     string            `json:"location"`
	Visibility   models.Visibility `json:"visibility,omitempty"`
	Participants []string          `json:"participants,omitempty"`
	GroupID      string            `json:"group_id,omitempty"`
	EventPicture string            `json:"event_picture,omitempty"`
}

// HandleCreate handles POST /events. The caller becomes the creator and
// first participant. An event tied to a group requires the caller to be a
// member of it.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createRequest
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if in.StartTime.IsZero() {
		respond.Error(w, r, h.Log, apperr.Validation("start_time is required"))
		return
	}
	switch in.Visibility {
	case "", models.VisibilityPublic, models.VisibilityPrivate:
	default:
		respond.Error(w, r, h.Log, apperr.Validation("event visibility must be public or private"))
		return
	}

	uid := auth.UserID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read()+timeouts.Write())
	defer cancel()

	groupID := strings.TrimSpace(in.GroupID)
	if groupID != "" {
		g, err := h.Data.GetGroup(ctx, groupID)
		if err != nil {
			respond.Error(w, r, h.Log, err)
			return
		}
		if g == nil || !g.HasMember(uid) {
			respond.Error(w, r, h.Log, fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound))
			return
		}
	}

	e := models.NewEvent("",
		htmlsanitize.Clamp(htmlsanitize.PlainText(in.Name), maxNameLength),
		htmlsanitize.Clamp(htmlsanitize.PlainText(in.Description), maxDescriptionLength),
		uid, in.StartTime, h.now())
	e.Location = htmlsanitize.Clamp(htmlsanitize.PlainText(in.Location), maxLocationLength)
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		e.EndTime = &end
	}
	if in.Visibility != "" {
		e.Visibility = in.Visibility
	}
	for _, p := range in.Participants {
		if p = strings.TrimSpace(p); p != "" && !e.HasParticipant(p) {
			e.Participants = append(e.Participants, p)
		}
	}
	e.GroupID = models.StringPtr(groupID)
	e.EventPicture = models.StringPtr(strings.TrimSpace(in.EventPicture))

	created, err := h.Data.CreateEvent(ctx, e)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Log.Info("event created",
		zap.String("event_id", created.ID),
		zap.String("creator_id", uid),
		zap.Time("start", created.StartTime))
	respond.Created(w, created)
}
