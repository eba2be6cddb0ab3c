// internal/app/features/groups/handler.go
package groups

import (
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	Data dataservice.Service
	Log  *zap.Logger
	Now  func() time.Time
}

func NewHandler(data dataservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Data: data, Log: logger, Now: time.Now}
}
