// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "groups"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	return docstore.Find[models.Group](ctx, s.c, nil)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Group, error) {
	return docstore.Get[models.Group](ctx, s.c, id)
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	if err := docstore.Insert(ctx, s.c, g.ID, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ListByMember returns the groups whose members array contains userID,
// ordered by name.
func (s *Store) ListByMember(ctx context.Context, userID string) ([]models.Group, error) {
	return docstore.Find[models.Group](ctx, s.c,
		bson.M{"members": userID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
}

// CountByMember counts the groups userID belongs to.
func (s *Store) CountByMember(ctx context.Context, userID string) (int64, error) {
	return docstore.Count(ctx, s.c, bson.M{"members": userID})
}

func (s *Store) IDs(ctx context.Context) (map[string]struct{}, error) {
	return docstore.IDs(ctx, s.c)
}
