package posts_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/app/features/posts"
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

// Within post001's lifetime.
var now = time.Date(2025, 4, 7, 13, 0, 0, 0, time.UTC)

type listBody struct {
	Posts []struct {
		ID        string   `json:"id"`
		Likes     []string `json:"likes"`
		LikeCount int      `json:"like_count"`
	} `json:"posts"`
	Page struct {
		Total   int  `json:"total"`
		HasNext bool `json:"has_next"`
	} `json:"page"`
}

func setup(t *testing.T) (chi.Router, *localstore.Store) {
	t.Helper()
	store := localstore.New(seed.Default())
	h := posts.NewHandler(store, zap.NewNop())
	h.Now = func() time.Time { return now }
	return posts.Routes(h, sessions(t)), store
}

func sessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	return sm
}

func serve(r http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ana() testutil.TestUser {
	return testutil.TestUser{ID: "def456", Username: "anarodriguez", Provider: models.ProviderPassword}
}

func TestServeList_SeedFeed(t *testing.T) {
	r, _ := setup(t)
	rec := serve(r, testutil.NewAuthenticatedRequest("GET", "/", testutil.SeedUser()))
	rec.AssertStatus(t, http.StatusOK)

	var body listBody
	rec.DecodeJSON(t, &body)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "post001", body.Posts[0].ID)
	assert.Equal(t, 3, body.Posts[0].LikeCount)
}

func TestServeList_HidesGroupPostsFromOutsiders(t *testing.T) {
	r, store := setup(t)
	_, err := store.CreatePost(context.Background(),
		models.NewPost("gp", "abc123", "group only", models.Target{GroupID: "group001"}, now.Add(-time.Minute), 0))
	require.NoError(t, err)

	var member, outsider listBody
	serve(r, testutil.NewAuthenticatedRequest("GET", "/", ana())).DecodeJSON(t, &member)
	serve(r, testutil.NewAuthenticatedRequest("GET", "/", testutil.SeedUser())).DecodeJSON(t, &outsider)

	assert.Len(t, member.Posts, 2)
	assert.Len(t, outsider.Posts, 1)
}

func TestServeList_Paging(t *testing.T) {
	r, _ := setup(t)
	var body listBody
	serve(r, testutil.NewAuthenticatedRequest("GET", "/?limit=1&start=2", testutil.SeedUser())).DecodeJSON(t, &body)
	assert.Empty(t, body.Posts)
	assert.Equal(t, 1, body.Page.Total)
}

func TestServeView(t *testing.T) {
	r, _ := setup(t)
	rec := serve(r, testutil.NewAuthenticatedRequest("GET", "/post001", testutil.SeedUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"id":"post001"`)

	serve(r, testutil.NewAuthenticatedRequest("GET", "/nope", testutil.SeedUser())).
		AssertStatus(t, http.StatusNotFound)
}

func TestServeView_ExpiredIsNotFound(t *testing.T) {
	store := localstore.New(seed.Default())
	h := posts.NewHandler(store, zap.NewNop())
	h.Now = func() time.Time { return now.Add(48 * time.Hour) }
	r := posts.Routes(h, sessions(t))

	serve(r, testutil.NewAuthenticatedRequest("GET", "/post001", testutil.SeedUser())).
		AssertStatus(t, http.StatusNotFound)

	author := testutil.TestUser{ID: "abc123", Username: "abc", Provider: models.ProviderPassword}
	serve(r, testutil.NewAuthenticatedRequest("GET", "/post001", author)).
		AssertStatus(t, http.StatusOK)
}

func TestHandleLike_Toggles(t *testing.T) {
	r, store := setup(t)
	ctx := context.Background()

	// testUser already likes post001; first toggle removes the like.
	rec := serve(r, testutil.NewAuthenticatedRequest("POST", "/post001/like", testutil.SeedUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"liked":false`)

	p, err := store.GetPost(ctx, "post001")
	require.NoError(t, err)
	assert.Equal(t, 2, p.LikeCount())
	assert.False(t, p.LikedBy("testUser"))

	serve(r, testutil.NewAuthenticatedRequest("POST", "/post001/like", testutil.SeedUser())).
		AssertContains(t, `"liked":true`)
	p, err = store.GetPost(ctx, "post001")
	require.NoError(t, err)
	assert.Equal(t, 3, p.LikeCount())
}

// Concurrent toggles by different users must not lose updates.
func TestHandleLike_Concurrent(t *testing.T) {
	r, store := setup(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := testutil.TestUser{ID: "liker-" + string(rune('a'+i)), Username: "l", Provider: models.ProviderAnonymous}
			serve(r, testutil.NewAuthenticatedRequest("POST", "/post001/like", u)).AssertStatus(t, http.StatusOK)
		}(i)
	}
	wg.Wait()

	p, err := store.GetPost(context.Background(), "post001")
	require.NoError(t, err)
	assert.Equal(t, 3+n, p.LikeCount())
}

func TestRoutes_RequireSignIn(t *testing.T) {
	r, _ := setup(t)
	serve(r, testutil.NewRequest("GET", "/")).AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleLike_Missing(t *testing.T) {
	r, _ := setup(t)
	serve(r, testutil.NewAuthenticatedRequest("POST", "/ghost/like", testutil.SeedUser())).
		AssertStatus(t, http.StatusNotFound)
}

func TestHandleLike_ReleasesPostLocks(t *testing.T) {
	store := localstore.New(seed.Default())
	h := posts.NewHandler(store, zap.NewNop())
	h.Now = func() time.Time { return now }
	r := posts.Routes(h, sessions(t))

	for _, id := range []string{"ghost-1", "ghost-2", "ghost-3"} {
		serve(r, testutil.NewAuthenticatedRequest("POST", "/"+id+"/like", testutil.SeedUser())).
			AssertStatus(t, http.StatusNotFound)
	}
	serve(r, testutil.NewAuthenticatedRequest("POST", "/post001/like", ana())).AssertStatus(t, http.StatusOK)

	assert.Zero(t, h.LockedPosts())
}
