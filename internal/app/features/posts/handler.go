// internal/app/features/posts/handler.go
package posts

import (
	"sync"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"go.uber.org/zap"
)

// Handler serves the feed and per-post actions.
type Handler struct {
	Data dataservice.Service
	Log  *zap.Logger
	Now  func() time.Time

	likeMu sync.Mutex
	likes  map[string]*postLock
}

// postLock is held by every request working on one post. The entry is
// dropped when the last holder unlocks.
type postLock struct {
	mu   sync.Mutex
	refs int
}

func NewHandler(data dataservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Data: data, Log: logger, Now: time.Now}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}

// lockPost serializes read-modify-write cycles on one post within this
// process. It returns the unlock func.
func (h *Handler) lockPost(id string) func() {
	h.likeMu.Lock()
	if h.likes == nil {
		h.likes = map[string]*postLock{}
	}
	l, ok := h.likes[id]
	if !ok {
		l = &postLock{}
		h.likes[id] = l
	}
	l.refs++
	h.likeMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		h.likeMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.likes, id)
		}
		h.likeMu.Unlock()
	}
}
