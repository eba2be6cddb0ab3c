// Package docstore holds the collection helpers the per-collection Mongo
// stores share. Documents are keyed by a string _id.
//
// Error mapping happens here, once:
//   - duplicate _id on insert -> apperr.ErrDuplicate
//   - replace of an unknown _id -> apperr.ErrNotFound
//   - anything else from the driver -> apperr.ErrBackend
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is a model that can deep-copy itself. Decoded records pass through
// Clone so empty arrays come back as empty slices, never nil.
type Record[T any] interface {
	Clone() T
}

func op(c *mongo.Collection, verb string) string {
	return c.Name() + "." + verb
}

// Find returns the documents matching filter in store order.
func Find[T Record[T]](ctx context.Context, c *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, apperr.Backend(op(c, "find"), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, apperr.Backend(op(c, "decode"), err)
		}
		out = append(out, v.Clone())
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Backend(op(c, "find"), err)
	}
	return out, nil
}

// Get returns the document with id, or nil when there is none.
func Get[T Record[T]](ctx context.Context, c *mongo.Collection, id string) (*T, error) {
	var v T
	err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Backend(op(c, "get"), err)
	}
	v = v.Clone()
	return &v, nil
}

// Insert writes doc, which must carry its _id.
func Insert(ctx context.Context, c *mongo.Collection, id string, doc any) error {
	if _, err := c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return fmt.Errorf("%s %q: %w", c.Name(), id, apperr.ErrDuplicate)
		}
		return apperr.Backend(op(c, "insert"), err)
	}
	return nil
}

// Replace overwrites the document with id.
func Replace(ctx context.Context, c *mongo.Collection, id string, doc any) error {
	res, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return apperr.Backend(op(c, "replace"), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %q: %w", c.Name(), id, apperr.ErrNotFound)
	}
	return nil
}

// IDs returns every _id in the collection.
func IDs(ctx context.Context, c *mongo.Collection) (map[string]struct{}, error) {
	cur, err := c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, apperr.Backend(op(c, "ids"), err)
	}
	defer cur.Close(ctx)

	ids := make(map[string]struct{})
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, apperr.Backend(op(c, "ids"), err)
		}
		ids[row.ID] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Backend(op(c, "ids"), err)
	}
	return ids, nil
}

// Count returns the number of documents matching filter.
func Count(ctx context.Context, c *mongo.Collection, filter any) (int64, error) {
	n, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Backend(op(c, "count"), err)
	}
	return n, nil
}
