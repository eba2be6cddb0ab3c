package login_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/login"
	"github.com/dalemusser/photoshare/internal/app/store/localstore"
	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/app/system/ratelimit"
	"github.com/dalemusser/photoshare/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type identity struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Provider string `json:"provider"`
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	return newRouterWith(t, loginstore.NewMemory(10))
}

func newRouterWith(t *testing.T, logins loginstore.History) chi.Router {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", 24*time.Hour, false, logger)
	require.NoError(t, err)
	svc := &auth.Service{
		Accounts: auth.NewMemoryAccounts(),
		Users:    localstore.New(seed.Default()),
		Log:      logger,
	}
	r := chi.NewRouter()
	login.MountRoutes(r, login.NewHandler(svc, sm, ratelimit.NewSignIn(), logins, logger))
	return r
}

func do(r http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSignUp_SetsSessionCookie(t *testing.T) {
	r := newRouter(t)
	rec := do(r, testutil.NewJSONRequest("POST", "/signup", map[string]string{
		"email": "new@example.com", "password": "secret1", "username": "newbie",
	}))

	rec.AssertStatus(t, http.StatusCreated)
	var got identity
	rec.DecodeJSON(t, &got)
	assert.Equal(t, "newbie", got.User.Username)
	assert.Equal(t, "password", got.Provider)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestSignIn_AfterSignUp(t *testing.T) {
	r := newRouter(t)
	do(r, testutil.NewJSONRequest("POST", "/signup", map[string]string{"email": "a@b.co", "password": "secret1"})).
		AssertStatus(t, http.StatusCreated)

	rec := do(r, testutil.NewJSONRequest("POST", "/signin", map[string]string{"email": "A@B.co", "password": "secret1"}))
	rec.AssertStatus(t, http.StatusOK)
	var got identity
	rec.DecodeJSON(t, &got)
	assert.Equal(t, "a@b.co", got.User.Email)
}

func TestSignIn_WrongPassword(t *testing.T) {
	r := newRouter(t)
	do(r, testutil.NewJSONRequest("POST", "/signup", map[string]string{"email": "a@b.co", "password": "secret1"}))

	rec := do(r, testutil.NewJSONRequest("POST", "/signin", map[string]string{"email": "a@b.co", "password": "wrong-one"}))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "not authenticated")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignIn_RateLimitedPerEmail(t *testing.T) {
	r := newRouter(t)
	for i := 0; i < 5; i++ {
		do(r, testutil.NewJSONRequest("POST", "/signin", map[string]string{"email": "x@y.z", "password": "nope-nope"})).
			AssertStatus(t, http.StatusUnauthorized)
	}
	do(r, testutil.NewJSONRequest("POST", "/signin", map[string]string{"email": "x@y.z", "password": "nope-nope"})).
		AssertStatus(t, http.StatusTooManyRequests)
}

func TestSignUp_BadBody(t *testing.T) {
	r := newRouter(t)
	do(r, testutil.NewJSONRequest("POST", "/signup", map[string]any{"email": 5})).AssertStatus(t, http.StatusBadRequest)
	do(r, testutil.NewJSONRequest("POST", "/signup", map[string]string{"email": "bad", "password": "secret1"})).
		AssertStatus(t, http.StatusBadRequest)
}

func TestAnonymous(t *testing.T) {
	r := newRouter(t)
	rec := do(r, testutil.NewRequest("POST", "/anonymous"))
	rec.AssertStatus(t, http.StatusCreated)

	var got identity
	rec.DecodeJSON(t, &got)
	assert.Equal(t, "anonymous", got.Provider)
	assert.Empty(t, got.User.Email)
}

func TestSignUp_RecordsLogin(t *testing.T) {
	logins := loginstore.NewMemory(10)
	r := newRouterWith(t, logins)

	req := testutil.NewJSONRequest("POST", "/signup", map[string]string{
		"email": "hist@example.com", "password": "secret1",
	})
	req.RemoteAddr = "203.0.113.9:4000"
	rec := do(r, req)
	rec.AssertStatus(t, http.StatusCreated)
	var got identity
	rec.DecodeJSON(t, &got)

	recs, err := logins.Recent(context.Background(), got.User.ID, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "203.0.113.9", recs[0].IP)
	assert.Equal(t, "password", recs[0].Provider)
}
