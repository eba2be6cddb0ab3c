// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"strings"

	"github.com/dalemusser/photoshare/internal/app/store/docstore"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "accounts"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByEmail looks an account up by its case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email_ci": text.Fold(strings.TrimSpace(email))})
}

// GetByProvider looks an account up by identity provider and subject.
func (s *Store) GetByProvider(ctx context.Context, provider, subject string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"provider": provider, "provider_subject": subject})
}

// Create inserts a; EmailCI is derived from Email. A taken email is
// apperr.ErrDuplicate through the unique email_ci index.
func (s *Store) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.Email != "" {
		a.EmailCI = text.Fold(strings.TrimSpace(a.Email))
	}
	if err := docstore.Insert(ctx, s.c, a.ID, a); err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	out, err := docstore.Find[models.Account](ctx, s.c, filter, options.Find().SetLimit(1))
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}
