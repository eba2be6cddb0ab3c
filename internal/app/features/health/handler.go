package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// PingFunc checks the backing store.
type PingFunc func(ctx context.Context) error

// MongoPing pings the primary of client.
func MongoPing(client *mongo.Client) PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Ping PingFunc // nil in local mode
	Mode string
	Log  *zap.Logger
}

func NewHandler(ping PingFunc, mode string, logger *zap.Logger) *Handler {
	return &Handler{Ping: ping, Mode: mode, Log: logger}
}

type healthResponse struct {
	Status  string `json:"status"`
	Mode    string `json:"mode"`
	Store   string `json:"store"`
	Message string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "mode":"remote", "store":"connected" }
//
// On store failure: 503 with status "error". Driver details are logged,
// not returned.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{Status: "ok", Mode: h.Mode, Store: "connected"}

	if h.Ping == nil {
		resp.Store = "in-memory"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()
	if err := h.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Store = "disconnected"
		resp.Message = "Store unavailable"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}
