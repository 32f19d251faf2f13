package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridbase-inc/import-engine/pkg/apperrors"
)

// blobKeyPrefix namespaces engine blobs inside a shared Redis instance.
const blobKeyPrefix = "gridbase:import:"

type redisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore creates a BlobStore backed by Redis. Blobs are stored
// without expiry; retention is handled by the history store's own
// cleanup.
func NewRedisBlobStore(client *redis.Client) BlobStore {
	return &redisBlobStore{client: client}
}

var _ BlobStore = (*redisBlobStore)(nil)

func (s *redisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, blobKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

func (s *redisBlobStore) Set(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, blobKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *redisBlobStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, blobKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
