// internal/app/features/login/handler.go
package login

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

// Handler serves email sign up, email sign in, and anonymous sign in.
type Handler struct {
	Auth     *auth.Service
	Sessions *auth.SessionManager
	Limiter  *ratelimit.SignIn
	// Logins is optional; when set every sign-in is recorded.
	Logins loginstore.History
	Log    *zap.Logger
}

func NewHandler(svc *auth.Service, sessions *auth.SessionManager, limiter *ratelimit.SignIn, logins loginstore.History, logger *zap.Logger) *Handler {
	return &Handler{Auth: svc, Sessions: sessions, Limiter: limiter, Logins: logins, Log: logger}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth/signup                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := h.Limiter.Check(r, ""); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id, err := h.Auth.SignUp(ctx, in.Email, in.Password, in.Username)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.startSession(w, r, id, http.StatusCreated)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth/signin                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := h.Limiter.Check(r, in.Email); err != nil {
		h.Log.Warn("sign-in rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		respond.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	id, err := h.Auth.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Limiter.Succeeded(in.Email)
	h.startSession(w, r, id, http.StatusOK)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /auth/anonymous                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAnonymous(w http.ResponseWriter, r *http.Request) {
	if err := h.Limiter.Check(r, ""); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	id, err := h.Auth.SignInAnonymous(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.startSession(w, r, id, http.StatusCreated)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, id auth.Identity, status int) {
	if err := h.Sessions.Login(w, r, id.Session()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", id.User.ID))
		respond.Error(w, r, h.Log, err)
		return
	}
	h.Log.Info("signed in", zap.String("user_id", id.User.ID), zap.String("provider", id.Provider))
	h.recordLogin(r, id)
	respond.JSON(w, status, id)
}

// recordLogin stores the sign-in in the login history. A failure is logged;
// the session is already established.
func (h *Handler) recordLogin(r *http.Request, id auth.Identity) {
	if h.Logins == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Write())
	defer cancel()
	if err := loginstore.RecordRequest(ctx, h.Logins, r, id.User.ID, id.Provider); err != nil {
		h.Log.Warn("record login failed", zap.String("user_id", id.User.ID), zap.Error(err))
	}
}
