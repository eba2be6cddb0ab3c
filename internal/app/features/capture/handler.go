// internal/app/features/capture/handler.go
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/system/camera"
	"github.com/dalemusser/photoshare/internal/app/system/pipeline"
	"github.com/dalemusser/photoshare/internal/app/system/photostore"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"go.uber.org/zap"
)

const (
	// MaxSessionsPerUser caps open capture sessions for one user.
	MaxSessionsPerUser = 3
	recentTransitions  = 20
)

// session is one open capture flow owned by a single user.
type session struct {
	id    string
	owner string
	dir   string
	pipe  *pipeline.Pipeline
	inbox *camera.Inbox

	mu       sync.Mutex
	lastUsed time.Time
	recent   []pipeline.Transition
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *session) record(t pipeline.Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, t)
	if n := len(s.recent); n > recentTransitions {
		s.recent = append([]pipeline.Transition(nil), s.recent[n-recentTransitions:]...)
	}
}

func (s *session) history() []pipeline.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pipeline.Transition(nil), s.recent...)
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Handler owns the capture session registry and serves /capture.
type Handler struct {
	Data     dataservice.Service
	Photos   photostore.Store
	Editor   pipeline.Editor
	SpoolDir string
	PostTTL  time.Duration
	Log      *zap.Logger
	Now      func() time.Time
	NewID    func() string

	mu       sync.Mutex
	sessions map[string]*session
}

func NewHandler(data dataservice.Service, photos photostore.Store, editor pipeline.Editor, spoolDir string, postTTL time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Data:     data,
		Photos:   photos,
		Editor:   editor,
		SpoolDir: spoolDir,
		PostTTL:  postTTL,
		Log:      logger,
		Now:      time.Now,
		sessions: map[string]*session{},
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}

// lookup returns the caller's session. Sessions owned by someone else are
// reported as not found.
func (h *Handler) lookup(sid, uid string) (*session, error) {
	h.mu.Lock()
	s, ok := h.sessions[sid]
	h.mu.Unlock()
	if !ok || s.owner != uid {
		return nil, fmt.Errorf("capture session %s: %w", sid, apperr.ErrNotFound)
	}
	s.touch(h.now())
	return s, nil
}

func (h *Handler) add(s *session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions == nil {
		h.sessions = map[string]*session{}
	}
	n := 0
	for _, other := range h.sessions {
		if other.owner == s.owner {
			n++
		}
	}
	if n >= MaxSessionsPerUser {
		return fmt.Errorf("%d capture sessions already open: %w", n, apperr.ErrRateLimited)
	}
	h.sessions[s.id] = s
	return nil
}

// remove drops sid from the registry and reports whether it was present.
func (h *Handler) remove(sid string) (*session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sid]
	if ok {
		delete(h.sessions, sid)
	}
	return s, ok
}

// Len is the number of open sessions.
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// shutdown releases the camera and deletes the session's spool directory.
func (h *Handler) shutdown(ctx context.Context, s *session) {
	if err := s.pipe.Close(ctx); err != nil {
		h.Log.Warn("capture session close failed", zap.String("session_id", s.id), zap.Error(err))
	}
	if err := os.RemoveAll(s.dir); err != nil {
		h.Log.Warn("capture spool cleanup failed", zap.String("dir", s.dir), zap.Error(err))
	}
}

// CloseIdle closes sessions unused for longer than idle. Sessions with a
// capture or publish in flight are left alone until the next sweep.
func (h *Handler) CloseIdle(ctx context.Context, idle time.Duration) int {
	cutoff := h.now().Add(-idle)

	h.mu.Lock()
	var stale []*session
	for id, s := range h.sessions {
		if s.pipe.IsBusy() || s.idleSince().After(cutoff) {
			continue
		}
		stale = append(stale, s)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, s := range stale {
		h.shutdown(ctx, s)
		h.Log.Info("capture session expired",
			zap.String("session_id", s.id),
			zap.String("user_id", s.owner))
	}
	return len(stale)
}

// CloseAll closes every session. It is called on server shutdown.
func (h *Handler) CloseAll(ctx context.Context) {
	h.mu.Lock()
	all := make([]*session, 0, len(h.sessions))
	for id, s := range h.sessions {
		all = append(all, s)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, s := range all {
		h.shutdown(ctx, s)
	}
	if len(all) > 0 {
		h.Log.Info("capture sessions closed", zap.Int("count", len(all)))
	}
}

func (h *Handler) spoolDir(sid string) string {
	root := h.SpoolDir
	if root == "" {
		root = filepath.Join(os.TempDir(), "photoshare-capture")
	}
	return filepath.Join(root, sid)
}
