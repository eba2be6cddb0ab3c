// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/app/system/ratelimit"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "login_records"

// MaxUserAgent bounds the stored user agent.
const MaxUserAgent = 256

// History records sign-ins and lists a user's most recent ones.
type History interface {
	Record(ctx context.Context, rec models.LoginRecord) error
	Recent(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error)
}

// FromRequest builds a record for userID from the client address and user
// agent of r.
func FromRequest(r *http.Request, userID, provider string, now time.Time) models.LoginRecord {
	ua := r.UserAgent()
	if len(ua) > MaxUserAgent {
		ua = ua[:MaxUserAgent]
	}
	return models.LoginRecord{
		UserID:    userID,
		Provider:  provider,
		IP:        ratelimit.ClientIP(r),
		UserAgent: ua,
		CreatedAt: now.UTC(),
	}
}

// RecordRequest records a sign-in by userID made through r.
func RecordRequest(ctx context.Context, h History, r *http.Request, userID, provider string) error {
	return h.Record(ctx, FromRequest(r, userID, provider, time.Now()))
}

func fill(rec models.LoginRecord) models.LoginRecord {
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}

// Store keeps login records in MongoDB.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Record inserts rec. A missing ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, rec models.LoginRecord) error {
	rec = fill(rec)
	return docstore.Insert(ctx, s.c, rec.ID, rec)
}

// Recent returns up to limit records for userID, newest first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return docstore.Find[models.LoginRecord](ctx, s.c, bson.M{"user_id": userID}, opts)
}

// Memory is the in-process History used with the local data service. It
// keeps at most perUser records for each user.
type Memory struct {
	mu      sync.Mutex
	perUser int
	byUser  map[string][]models.LoginRecord
}

func NewMemory(perUser int) *Memory {
	if perUser <= 0 {
		perUser = 50
	}
	return &Memory{perUser: perUser, byUser: map[string][]models.LoginRecord{}}
}

func (m *Memory) Record(_ context.Context, rec models.LoginRecord) error {
	rec = fill(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := append(m.byUser[rec.UserID], rec)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	if len(recs) > m.perUser {
		recs = recs[:m.perUser]
	}
	m.byUser[rec.UserID] = recs
	return nil
}

func (m *Memory) Recent(_ context.Context, userID string, limit int) ([]models.LoginRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.byUser[userID]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return append([]models.LoginRecord{}, recs...), nil
}
