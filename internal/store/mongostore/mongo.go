// Package mongostore implements the document and blob contracts on MongoDB:
// one collection per document type and a GridFS bucket for blobs.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Connect dials uri and verifies the deployment is reachable.
func Connect(ctx context.Context, uri string, maxPoolSize uint64) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri)
	if maxPoolSize > 0 {
		opts.SetMaxPoolSize(maxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())

		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}
