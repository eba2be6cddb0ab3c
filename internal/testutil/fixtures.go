package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures inserts records straight into the test database, bypassing the
// stores under test.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateUser inserts a user with a generated id.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	u := models.NewUser(primitive.NewObjectID().Hex(), username, email, time.Now())
	f.insert(ctx, "users", u)
	return u
}

// CreateGroup inserts a group created by creatorID with the extra members.
func (f *Fixtures) CreateGroup(ctx context.Context, name, creatorID string, members ...string) models.Group {
	f.t.Helper()
	g := models.NewGroup(primitive.NewObjectID().Hex(), name, "Test group", creatorID, models.VisibilityPrivate, time.Now())
	g.Members = append(g.Members, members...)
	f.insert(ctx, "groups", g)
	return g
}

// CreateEvent inserts an event starting a day from now.
func (f *Fixtures) CreateEvent(ctx context.Context, name, creatorID string, participants ...string) models.Event {
	f.t.Helper()
	now := time.Now()
	e := models.NewEvent(primitive.NewObjectID().Hex(), name, "Test event", creatorID, now.Add(24*time.Hour), now)
	e.Participants = append(e.Participants, participants...)
	f.insert(ctx, "events", e)
	return e
}

// CreatePost inserts a post by userID published to target.
func (f *Fixtures) CreatePost(ctx context.Context, userID, content string, target models.Target) models.Post {
	f.t.Helper()
	p := models.NewPost(primitive.NewObjectID().Hex(), userID, content, target, time.Now(), 0)
	f.insert(ctx, "posts", p)
	return p
}
