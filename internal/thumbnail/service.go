// Package thumbnail stores article thumbnails as opaque blobs keyed by the
// article uuid. Keys are not checked against the article collection.
package thumbnail

import (
	"context"
	"fmt"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

type Service struct {
	blobs store.Blobs
}

func NewService(blobs store.Blobs) *Service {
	return &Service{blobs: blobs}
}

// Upload writes data under id, replacing any previous thumbnail.
func (s *Service) Upload(ctx context.Context, id string, data []byte) error {
	if err := s.blobs.Put(ctx, id, data); err != nil {
		return fmt.Errorf("upload thumbnail %s: %w", id, err)
	}

	return nil
}

func (s *Service) Fetch(ctx context.Context, id string) ([]byte, error) {
	data, err := s.blobs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch thumbnail %s: %w", id, err)
	}

	return data, nil
}
