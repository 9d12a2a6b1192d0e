package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

// Collection is a store.Collection over a MongoDB collection. Documents are
// keyed by _id; T carries no _id field of its own.
type Collection[T any] struct {
	coll *mongo.Collection
}

var _ store.Collection[struct{}] = (*Collection[struct{}])(nil)

func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}

	return docs, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T

	err := c.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return doc, fmt.Errorf("find %s %q: %w", c.coll.Name(), id, err)
	}

	return doc, nil
}

func (c *Collection[T]) Put(ctx context.Context, id string, doc T) error {
	_, err := c.coll.ReplaceOne(ctx, byID(id), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s %q: %w", c.coll.Name(), id, err)
	}

	return nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, doc T) error {
	res, err := c.coll.ReplaceOne(ctx, byID(id), doc)
	if err != nil {
		return fmt.Errorf("replace %s %q: %w", c.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}

	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", c.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}

	return nil
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}
