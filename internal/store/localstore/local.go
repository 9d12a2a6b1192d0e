// Package localstore keeps blobs as files under a base directory.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

// Blobs is a store.Blobs backed by the local filesystem. Each key maps to one
// file directly under the base directory.
type Blobs struct {
	basePath string
}

var _ store.Blobs = (*Blobs)(nil)

// New creates basePath if needed.
func New(basePath string, logger *zap.SugaredLogger) (*Blobs, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Errorw("create blob directory", "path", basePath, "error", err)

		return nil, fmt.Errorf("create blob directory: %w", err)
	}

	return &Blobs{basePath: basePath}, nil
}

func (b *Blobs) Put(ctx context.Context, key string, data []byte) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.basePath, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("close %q: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("rename %q: %w", key, err)
	}

	return nil
}

func (b *Blobs) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %q: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}

	return data, nil
}

func (b *Blobs) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.HasPrefix(key, ".") ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("blob %q: %w", key, store.ErrInvalidKey)
	}

	return filepath.Join(b.basePath, key), nil
}
