package events_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/events"
	"github.com/dalemusser/photoshare/internal/app/store/localstore"
	"github.com/dalemusser/photoshare/internal/app/store/seed"
	"github.com/dalemusser/photoshare/internal/app/system/auth"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/photoshare/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

type eventBody struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CreatorID    string   `json:"creator_id"`
	Participants []string `json:"participants"`
	GroupID      string   `json:"group_id"`
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	h := events.NewHandler(localstore.New(seed.Default()), zap.NewNop())
	h.Now = func() time.Time { return now }
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	return events.Routes(h, sm)
}

func serve(r http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func user(id string) testutil.TestUser {
	return testutil.TestUser{ID: id, Username: id, Provider: models.ProviderPassword}
}

func TestServeMine_SortedByStart(t *testing.T) {
	r := newRouter(t)
	var body struct {
		Events []eventBody `json:"events"`
	}
	serve(r, testutil.NewAuthenticatedRequest("GET", "/mine", testutil.SeedUser())).DecodeJSON(t, &body)

	require.Len(t, body.Events, 2)
	assert.Equal(t, "event001", body.Events[0].ID)
	assert.Equal(t, "event002", body.Events[1].ID)
}

func TestServeList_PrivateHidden(t *testing.T) {
	r := newRouter(t)
	var body struct {
		Events []eventBody `json:"events"`
	}
	serve(r, testutil.NewAuthenticatedRequest("GET", "/", user("def456"))).DecodeJSON(t, &body)
	assert.Empty(t, body.Events)
}

func TestServeList_Upcoming(t *testing.T) {
	r := newRouter(t)
	var body struct {
		Events []eventBody `json:"events"`
	}
	// event001 ends 2025-04-11T02:00Z, event002 starts 2025-04-12T18:00Z; both are upcoming on 04-09.
	serve(r, testutil.NewAuthenticatedRequest("GET", "/mine?upcoming=true", user("abc123"))).DecodeJSON(t, &body)
	assert.Len(t, body.Events, 2)
}

func TestServeView(t *testing.T) {
	r := newRouter(t)
	serve(r, testutil.NewAuthenticatedRequest("GET", "/event001", testutil.SeedUser())).AssertStatus(t, http.StatusOK)
	serve(r, testutil.NewAuthenticatedRequest("GET", "/event001", user("def456"))).AssertStatus(t, http.StatusNotFound)
}

func TestHandleCreate(t *testing.T) {
	r := newRouter(t)
	rec := serve(r, testutil.WithUser(testutil.NewJSONRequest("POST", "/", map[string]any{
		"name":         "Picnic",
		"start_time":   "2025-05-01T12:00:00Z",
		"location":     "Parque",
		"participants": []string{"abc123"},
		"group_id":     "group001",
	}), user("def456")))

	rec.AssertStatus(t, http.StatusCreated)
	var e eventBody
	rec.DecodeJSON(t, &e)
	assert.Equal(t, "def456", e.CreatorID)
	assert.Equal(t, []string{"def456", "abc123"}, e.Participants)
	assert.Equal(t, "group001", e.GroupID)
}

func TestHandleCreate_Rejections(t *testing.T) {
	r := newRouter(t)

	// Not a member of group001.
	serve(r, testutil.WithUser(testutil.NewJSONRequest("POST", "/", map[string]any{
		"name": "x", "start_time": "2025-05-01T12:00:00Z", "group_id": "group001",
	}), testutil.SeedUser())).AssertStatus(t, http.StatusNotFound)

	// Missing start.
	serve(r, testutil.WithUser(testutil.NewJSONRequest("POST", "/", map[string]any{"name": "x"}), testutil.SeedUser())).
		AssertStatus(t, http.StatusBadRequest)

	// End before start.
	serve(r, testutil.WithUser(testutil.NewJSONRequest("POST", "/", map[string]any{
		"name": "x", "start_time": "2025-05-01T12:00:00Z", "end_time": "2025-05-01T10:00:00Z",
	}), testutil.SeedUser())).AssertStatus(t, http.StatusBadRequest)
}
