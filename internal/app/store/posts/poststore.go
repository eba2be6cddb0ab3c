// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "posts"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	return docstore.Find[models.Post](ctx, s.c, nil)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return docstore.Get[models.Post](ctx, s.c, id)
}

func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if err := docstore.Insert(ctx, s.c, p.ID, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Replace overwrites the stored post with p.
func (s *Store) Replace(ctx context.Context, p models.Post) error {
	return docstore.Replace(ctx, s.c, p.ID, p)
}

// ListUnexpired returns posts still visible at now, newest first.
func (s *Store) ListUnexpired(ctx context.Context, now time.Time) ([]models.Post, error) {
	return docstore.Find[models.Post](ctx, s.c,
		bson.M{"expiration_time": bson.M{"$gt": now.UTC()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// CountByUser counts the posts authored by userID.
func (s *Store) CountByUser(ctx context.Context, userID string) (int64, error) {
	return docstore.Count(ctx, s.c, bson.M{"user_id": userID})
}

func (s *Store) IDs(ctx context.Context) (map[string]struct{}, error) {
	return docstore.IDs(ctx, s.c)
}
