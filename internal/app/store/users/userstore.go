// internal/app/store/users/userstore.go
package userstore

import (
	"context"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the users collection name.
const Collection = "users"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return docstore.Find[models.User](ctx, s.c, nil)
}

// GetByID returns nil when no user has id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	return docstore.Get[models.User](ctx, s.c, id)
}

// Create inserts u as given; u.ID must be set.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := docstore.Insert(ctx, s.c, u.ID, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) IDs(ctx context.Context) (map[string]struct{}, error) {
	return docstore.IDs(ctx, s.c)
}
