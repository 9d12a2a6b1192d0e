package mongostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

// Bucket is a store.Blobs over a GridFS bucket. The blob key is the GridFS
// filename; only the newest revision of a filename is kept.
type Bucket struct {
	bucket *gridfs.Bucket
}

var _ store.Blobs = (*Bucket)(nil)

func NewBucket(db *mongo.Database, name string) (*Bucket, error) {
	b, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(name))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket %q: %w", name, err)
	}

	return &Bucket{bucket: b}, nil
}

func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := b.bucket.UploadFromStream(key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}

	return b.prune(ctx, key, id)
}

// Get reads the newest revision of key. The download stream takes no
// context, so the context deadline becomes the stream deadline and
// cancellation is checked between chunk reads.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := b.bucket.OpenDownloadStreamByName(key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, fmt.Errorf("blob %q: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", key, err)
	}
	defer ds.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := ds.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("download %q: %w", key, err)
		}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, ctxReader{ctx: ctx, r: ds}); err != nil {
		return nil, fmt.Errorf("download %q: %w", key, err)
	}

	return buf.Bytes(), nil
}

// prune removes the revisions of key older than keep. Revisions newer than
// keep belong to a concurrent upload and are left for it to prune.
func (b *Bucket) prune(ctx context.Context, key string, keep primitive.ObjectID) error {
	filter := bson.D{
		{Key: "filename", Value: key},
		{Key: "_id", Value: bson.D{{Key: "$lt", Value: keep}}},
	}

	cursor, err := b.bucket.FindContext(ctx, filter)
	if err != nil {
		return fmt.Errorf("find revisions of %q: %w", key, err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("decode revisions of %q: %w", key, err)
	}

	for _, f := range files {
		if err := b.bucket.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("delete revision of %q: %w", key, err)
		}
	}

	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
