package server

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/blog/internal/config"
	"github.com/SergeyParamoshkin/blog/internal/events"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/store/localstore"
	"github.com/SergeyParamoshkin/blog/internal/store/memstore"
	"github.com/SergeyParamoshkin/blog/internal/store/mongostore"
	"github.com/SergeyParamoshkin/blog/internal/store/redisstore"
)

// Backends holds the store and broker handles opened at startup.
type Backends struct {
	Articles store.Collection[model.Article]
	Blobs    store.Blobs
	Events   events.Publisher

	closers []func(context.Context) error
}

// OpenBackends connects every backend named in cfg. On error, anything
// already opened is closed again.
func OpenBackends(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (_ *Backends, err error) {
	b := &Backends{Events: events.Nop{}}
	defer func() {
		if err != nil {
			_ = b.Close(context.Background())
		}
	}()

	var db *mongo.Database
	if cfg.NeedsMongo() {
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.MaxPoolSize)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		db = client.Database(cfg.Mongo.Database)
		sugar.Infow("connected to mongo", "database", cfg.Mongo.Database)
	}

	switch cfg.Documents.Driver {
	case "mongo":
		b.Articles = mongostore.NewCollection[model.Article](db.Collection(cfg.Documents.Collection))
	case "memory":
		b.Articles = memstore.NewCollection[model.Article]()
	default:
		return nil, fmt.Errorf("unknown documents driver %q", cfg.Documents.Driver)
	}

	switch cfg.Blob.Driver {
	case "gridfs":
		bucket, err := mongostore.NewBucket(db, cfg.Blob.Bucket)
		if err != nil {
			return nil, err
		}
		b.Blobs = bucket
	case "redis":
		rs := redisstore.New(redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		b.closers = append(b.closers, func(context.Context) error { return rs.Close() })
		if err := rs.Ping(ctx); err != nil {
			return nil, err
		}
		b.Blobs = rs
	case "local":
		ls, err := localstore.New(cfg.Blob.LocalPath, sugar)
		if err != nil {
			return nil, err
		}
		b.Blobs = ls
	case "memory":
		b.Blobs = memstore.NewBlobs()
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Blob.Driver)
	}

	if cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return pub.Close() })
		b.Events = pub
		sugar.Infow("publishing article events", "subjectPrefix", cfg.NATS.SubjectPrefix)
	}

	sugar.Infow("backends ready", "documents", cfg.Documents.Driver, "blobs", cfg.Blob.Driver)

	return b, nil
}

// Close releases backends in reverse order of opening.
func (b *Backends) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil

	return errors.Join(errs...)
}
