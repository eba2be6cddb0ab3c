// internal/app/features/events/handler.go
package events

import (
	"sort"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the events feature.
type Handler struct {
	Data dataservice.Service
	Log  *zap.Logger
	Now  func() time.Time
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

func visibleTo(e models.Event, uid string) bool {
	return e.Visibility == models.VisibilityPublic || e.HasParticipant(uid)
}

// byStart orders events soonest first.
func byStart(es []models.Event) {
	sort.SliceStable(es, func(i, j int) bool {
		if !es[i].StartTime.Equal(es[j].StartTime) {
			return es[i].StartTime.Before(es[j].StartTime)
		}
		return es[i].ID < es[j].ID
	})
}
