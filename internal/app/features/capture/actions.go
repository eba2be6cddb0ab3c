// internal/app/features/capture/actions.go
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/camera"
	"github.com/dalemusser/photoshare/internal/app/system/limits"
	"github.com/dalemusser/photoshare/internal/app/system/photoedit"
	"github.com/dalemusser/photoshare/internal/app/system/pipeline"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sessionView struct {
	ID       string                `json:"session_id"`
	Snapshot pipeline.Snapshot     `json:"snapshot"`
	Recent   []pipeline.Transition `json:"recent,omitempty"`
}

func view(s *session) sessionView {
	return sessionView{ID: s.id, Snapshot: s.pipe.Snapshot(), Recent: s.history()}
}

type startRequest struct {
	Lens              camera.Lens `json:"lens,omitempty"`
	PermissionGranted bool        `json:"permission_granted"`
}

// HandleStart handles POST /capture. The client reports whether the user
// granted camera access; a denial fails the session and it is discarded.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var in startRequest
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	switch in.Lens {
	case "", camera.LensBack, camera.LensFront:
	default:
		respond.Error(w, r, h.Log, apperr.Validation("lens must be %q or %q", camera.LensBack, camera.LensFront))
		return
	}

	sid := uuid.NewString()
	if h.NewID != nil {
		sid = h.NewID()
	}
	uid := auth.UserID(r.Context())
	dir := h.spoolDir(sid)
	inbox := camera.NewInbox(dir, h.Log)

	s := &session{id: sid, owner: uid, dir: dir, inbox: inbox, lastUsed: h.now()}
	s.pipe = pipeline.New(pipeline.Config{
		Camera:      inbox,
		Permissions: camera.StaticPermission(in.PermissionGranted),
		Store:       h.Data,
		Editor:      h.Editor,
		Uploader:    h.Photos,
		CurrentUser: auth.UserID,
		Lens:        in.Lens,
		PostTTL:     h.PostTTL,
		Log:         h.Log.With(zap.String("session_id", sid)),
		Now:         h.Now,
	})
	s.pipe.Observe(s.record)

	if err := h.add(s); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := s.pipe.Start(r.Context()); err != nil {
		h.remove(sid)
		h.shutdown(context.WithoutCancel(r.Context()), s)
		respond.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info("capture session started",
		zap.String("session_id", sid),
		zap.String("user_id", uid),
		zap.String("lens", string(s.pipe.Snapshot().Lens)))
	respond.Created(w, view(s))
}

// ServeSession handles GET /capture/{sid}.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(chi.URLParam(r, "sid"), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, view(s))
}

// HandlePhoto handles POST /capture/{sid}/photo. The body is the raw JPEG
// frame; it is captured and the session moves straight into preview.
func (h *Handler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(chi.URLParam(r, "sid"), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	frame, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limits.MaxPhotoBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Error(w, r, h.Log, apperr.Validation("photo is larger than %d bytes", limits.MaxPhotoBody))
			return
		}
		respond.Error(w, r, h.Log, apperr.Validation("could not read photo"))
		return
	}
	if len(frame) == 0 {
		respond.Error(w, r, h.Log, apperr.Validation("photo body is empty"))
		return
	}
	if ct := http.DetectContentType(frame); ct != "image/jpeg" {
		respond.Error(w, r, h.Log, apperr.Validation("photo must be a JPEG (got %s)", ct))
		return
	}

	if err := s.inbox.Push(frame); err != nil {
		respond.Error(w, r, h.Log, fmt.Errorf("push frame: %w: %w", apperr.ErrState, err))
		return
	}
	if _, err := s.pipe.Capture(r.Context()); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if _, err := s.pipe.Preview(); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, view(s))
}

type targetRequest struct {
	GroupID string `json:"group_id,omitempty"`
	EventID string `json:"event_id,omitempty"`
}

type draftRequest struct {
	Content   *string              `json:"content,omitempty"`
	Target    *targetRequest       `json:"target,omitempty"`
	Transform *photoedit.Transform `json:"transform,omitempty"`
}

// HandleDraft handles PUT /capture/{sid}/draft. Only the fields present are
// changed. An empty target selects the author's profile.
func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	s, err := h.lookup(chi.URLParam(r, "sid"), uid)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in draftRequest
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	if in.Target != nil {
		if err := h.selectTarget(r.Context(), s, uid, *in.Target); err != nil {
			respond.Error(w, r, h.Log, err)
			return
		}
	}
	if in.Content != nil {
		if err := s.pipe.SetContent(*in.Content); err != nil {
			respond.Error(w, r, h.Log, err)
			return
		}
	}
	if in.Transform != nil {
		if err := s.pipe.SetTransform(*in.Transform); err != nil {
			respond.Error(w, r, h.Log, err)
			return
		}
	}
	respond.OK(w, view(s))
}

// selectTarget checks the caller may post to the target before applying
// it. Groups and events the caller is not part of are not found.
func (h *Handler) selectTarget(ctx context.Context, s *session, uid string, t targetRequest) error {
	groupID, eventID := strings.TrimSpace(t.GroupID), strings.TrimSpace(t.EventID)
	if groupID != "" && eventID != "" {
		return apperr.Validation("a post targets a group or an event, not both")
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Read())
	defer cancel()

	switch {
	case groupID != "":
		g, err := h.Data.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if g == nil || !g.HasMember(uid) {
			return fmt.Errorf("group %s: %w", groupID, apperr.ErrNotFound)
		}
		return s.pipe.SelectGroup(groupID)
	case eventID != "":
		e, err := h.Data.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if e == nil || !e.HasParticipant(uid) {
			return fmt.Errorf("event %s: %w", eventID, apperr.ErrNotFound)
		}
		return s.pipe.SelectEvent(eventID)
	}
	return s.pipe.SelectProfile()
}

type publishResponse struct {
	Post    models.Post `json:"post"`
	Session sessionView `json:"session"`
}

// HandlePublish handles POST /capture/{sid}/publish. A failed publish keeps
// the draft so the client can retry.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(chi.URLParam(r, "sid"), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	post, err := s.pipe.Publish(r.Context())
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.Created(w, publishResponse{Post: post, Session: view(s)})
}

// HandleFlip handles POST /capture/{sid}/flip.
func (h *Handler) HandleFlip(w http.ResponseWriter, r *http.Request) {
	s, err := h.lookup(chi.URLParam(r, "sid"), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := s.pipe.FlipLens(r.Context()); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, view(s))
}

// HandleClose handles DELETE /capture/{sid}. It releases the camera and
// removes every spooled photo.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if _, err := h.lookup(sid, auth.UserID(r.Context())); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	s, ok := h.remove(sid)
	if !ok {
		// Closed concurrently by the sweeper.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.shutdown(r.Context(), s)
	w.WriteHeader(http.StatusNoContent)
}

