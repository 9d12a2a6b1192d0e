// Package redisstore keeps blobs as plain Redis string values.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every blob key.
	Prefix string
}

// Blobs is a store.Blobs over Redis.
type Blobs struct {
	client *redis.Client
	prefix string
}

var _ store.Blobs = (*Blobs)(nil)

func New(opts Options) *Blobs {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	return &Blobs{client: client, prefix: opts.Prefix}
}

// Ping checks the server is reachable.
func (b *Blobs) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

func (b *Blobs) Close() error {
	return b.client.Close()
}

func (b *Blobs) Put(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, b.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return nil
}

func (b *Blobs) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("blob %q: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	return data, nil
}
