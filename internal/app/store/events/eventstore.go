// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "events"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	return docstore.Find[models.Event](ctx, s.c, nil)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return docstore.Get[models.Event](ctx, s.c, id)
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if err := docstore.Insert(ctx, s.c, e.ID, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) Replace(ctx context.Context, e models.Event) error {
	return docstore.Replace(ctx, s.c, e.ID, e)
}

// ListByParticipant returns the events userID takes part in, soonest first.
func (s *Store) ListByParticipant(ctx context.Context, userID string) ([]models.Event, error) {
	return docstore.Find[models.Event](ctx, s.c,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (s *Store) IDs(ctx context.Context) (map[string]struct{}, error) {
	return docstore.IDs(ctx, s.c)
}
