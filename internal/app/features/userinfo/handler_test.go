package userinfo_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/userinfo"
	"github.com/dalemusser/photoshare/internal/app/store/localstore"
	loginstore "github.com/dalemusser/photoshare/internal/app/store/logins"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/photoshare/internal/testutil"
	"go.uber.org/zap"
)

type response struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Provider        string `json:"provider"`
	User            *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func newHandler() *userinfo.Handler {
	return userinfo.NewHandler(localstore.New(seed.Default()), loginstore.NewMemory(10), zap.NewNop())
}

func TestServeMe_Unauthenticated(t *testing.T) {
	rec := testutil.NewRecorder()
	newHandler().ServeMe(rec, testutil.NewRequest("GET", "/auth/me"))

	rec.AssertStatus(t, http.StatusOK)
	var got response
	rec.DecodeJSON(t, &got)
	if got.IsAuthenticated || got.User != nil {
		t.Errorf("expected signed-out response, got %+v", got)
	}
}

func TestServeMe_SeedUser(t *testing.T) {
	rec := testutil.NewRecorder()
	newHandler().ServeMe(rec, testutil.NewAuthenticatedRequest("GET", "/auth/me", testutil.SeedUser()))

	rec.AssertStatus(t, http.StatusOK)
	var got response
	rec.DecodeJSON(t, &got)
	if !got.IsAuthenticated || got.User == nil {
		t.Fatalf("expected signed-in response, got %+v", got)
	}
	if got.User.Username != "juanperez" {
		t.Errorf("username: got %q, want %q", got.User.Username, "juanperez")
	}
	if got.Provider != "password" {
		t.Errorf("provider: got %q", got.Provider)
	}
}

func TestServeMe_UserVanished(t *testing.T) {
	rec := testutil.NewRecorder()
	newHandler().ServeMe(rec, testutil.NewAuthenticatedRequest("GET", "/auth/me", testutil.PasswordUser()))

	rec.AssertStatus(t, http.StatusOK)
	var got response
	rec.DecodeJSON(t, &got)
	if got.IsAuthenticated {
		t.Errorf("expected signed-out response for unknown user")
	}
}

func TestServeLogins(t *testing.T) {
	h := newHandler()
	base := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := h.Logins.Record(context.Background(), models.LoginRecord{
			UserID:    "testUser",
			Provider:  "password",
			IP:        fmt.Sprintf("192.0.2.%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rec := testutil.NewRecorder()
	h.ServeLogins(rec, testutil.NewAuthenticatedRequest("GET", "/auth/me/logins?limit=2", testutil.SeedUser()))
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Logins []struct {
			IP string `json:"ip"`
		} `json:"logins"`
	}
	rec.DecodeJSON(t, &got)
	if len(got.Logins) != 2 {
		t.Fatalf("logins: got %d, want 2", len(got.Logins))
	}
	if got.Logins[0].IP != "192.0.2.2" {
		t.Errorf("newest first: got %q", got.Logins[0].IP)
	}
}

func TestServeLogins_RequiresSession(t *testing.T) {
	rec := testutil.NewRecorder()
	newHandler().ServeLogins(rec, testutil.NewRequest("GET", "/auth/me/logins"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeLogins_BadLimit(t *testing.T) {
	rec := testutil.NewRecorder()
	newHandler().ServeLogins(rec, testutil.NewAuthenticatedRequest("GET", "/auth/me/logins?limit=zero", testutil.SeedUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}
