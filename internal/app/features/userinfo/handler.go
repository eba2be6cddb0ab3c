// internal/app/features/userinfo/handler.go
package userinfo

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.uber.org/zap"
)

// UserGetter loads the stored user for the session.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Handler serves the current session user and their sign-in history.
type Handler struct {
	Users  UserGetter
	Logins loginstore.History
	Log    *zap.Logger
}

func NewHandler(users UserGetter, logins loginstore.History, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Logins: logins, Log: logger}
}

type meResponse struct {
	IsAuthenticated bool         `json:"is_authenticated"`
	Provider        string       `json:"provider,omitempty"`
	User            *models.User `json:"user"`
}

// ServeMe handles GET /auth/me.
//
// Signed out:
//
//	{ "is_authenticated": false, "user": null }
//
// A session whose user record has vanished is reported as signed out.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.OK(w, meResponse{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()
	u, err := h.Users.GetUser(ctx, su.ID)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if u == nil {
		h.Log.Warn("session user not found", zap.String("user_id", su.ID))
		respond.OK(w, meResponse{})
		return
	}
	respond.OK(w, meResponse{IsAuthenticated: true, Provider: su.Provider, User: u})
}

const (
	defaultLogins = 10
	maxLogins     = 50
)

type loginsResponse struct {
	Logins []models.LoginRecord `json:"logins"`
}

// ServeLogins handles GET /auth/me/logins: the caller's most recent
// sign-ins, newest first. ?limit= caps the count at 50.
func (h *Handler) ServeLogins(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrNotAuthenticated)
		return
	}
	limit := defaultLogins
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Error(w, r, h.Log, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = min(n, maxLogins)
	}
	if h.Logins == nil {
		respond.OK(w, loginsResponse{Logins: []models.LoginRecord{}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()
	recs, err := h.Logins.Recent(ctx, su.ID, limit)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, loginsResponse{Logins: recs})
}
