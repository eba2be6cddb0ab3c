// internal/app/store/relationships/relationshipstore.go
package relationshipstore

import (
	"context"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "relationships"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) List(ctx context.Context) ([]models.Relationship, error) {
	return docstore.Find[models.Relationship](ctx, s.c, nil)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Relationship, error) {
	return docstore.Get[models.Relationship](ctx, s.c, id)
}

func (s *Store) Create(ctx context.Context, r models.Relationship) (models.Relationship, error) {
	if err := docstore.Insert(ctx, s.c, r.ID, r); err != nil {
		return models.Relationship{}, err
	}
	return r, nil
}

// ListFrom returns the relationships whose source is userID.
func (s *Store) ListFrom(ctx context.Context, userID string) ([]models.Relationship, error) {
	return docstore.Find[models.Relationship](ctx, s.c, bson.M{"user_id": userID})
}

func (s *Store) IDs(ctx context.Context) (map[string]struct{}, error) {
	return docstore.IDs(ctx, s.c)
}
