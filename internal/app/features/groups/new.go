// internal/app/features/groups/new.go
package groups

import (
	"context"
	"net/http"
	"strings"

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
)

type createRequest struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Visibility   models.Visibility `json:"visibility,omitempty"`
	Members      []string          `json:"members,omitempty"`
	GroupPicture string            `json:"group_picture,omitempty"`
}

// HandleCreate handles POST /groups. The caller becomes the creator and
// the first member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createRequest
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	switch in.Visibility {
	case "", models.VisibilityPublic, models.VisibilityPrivate:
	default:
		respond.Error(w, r, h.Log, apperr.Validation("group visibility must be public or private"))
		return
	}

	uid := auth.UserID(r.Context())
	g := models.NewGroup("",
		htmlsanitize.Clamp(htmlsanitize.PlainText(in.Name), maxNameLength),
		htmlsanitize.Clamp(htmlsanitize.PlainText(in.Description), maxDescriptionLength),
		uid, in.Visibility, h.Now())
	for _, m := range in.Members {
		if m = strings.TrimSpace(m); m != "" && !g.HasMember(m) {
			g.Members = append(g.Members, m)
		}
	}
	g.GroupPicture = models.StringPtr(strings.TrimSpace(in.GroupPicture))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()
	created, err := h.Data.AddGroup(ctx, g)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Log.Info("group created",
		zap.String("group_id", created.ID),
		zap.String("creator_id", uid),
		zap.Int("members", len(created.Members)))
	respond.Created(w, created)
}
