// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"net/http"

	"github.com/dalemusser/photoshare/internal/app/features/shared/respond"
	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/ratelimit"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler signs in with a Google access token obtained by the client.
type Handler struct {
	Auth     *auth.Service
	Sessions *auth.SessionManager
	Limiter  *ratelimit.SignIn
	Logins   loginstore.History // optional
	Log      *zap.Logger
}

func NewHandler(svc *auth.Service, sessions *auth.SessionManager, limiter *ratelimit.SignIn, logins loginstore.History, logger *zap.Logger) *Handler {
	return &Handler{Auth: svc, Sessions: sessions, Limiter: limiter, Logins: logins, Log: logger}
}

type tokenRequest struct {
	AccessToken string `json:"access_token"`
}

// HandleToken handles POST /auth/google.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var in tokenRequest
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := h.Limiter.Check(r, ""); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	// Userinfo is a remote call followed by store reads and writes.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write()+timeouts.Read())
	defer cancel()

	id, err := h.Auth.SignInGoogle(ctx, in.AccessToken)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := h.Sessions.Login(w, r, id.Session()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", id.User.ID))
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Log.Info("google sign-in", zap.String("user_id", id.User.ID))
	if h.Logins != nil {
		rctx, rcancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Write())
		defer rcancel()
		if err := loginstore.RecordRequest(rctx, h.Logins, r, id.User.ID, id.Provider); err != nil {
			h.Log.Warn("record login failed", zap.String("user_id", id.User.ID), zap.Error(err))
		}
	}
	respond.OK(w, id)
}
