package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridbase-inc/import-engine/pkg/apperrors"
)

type postgresBlobStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBlobStore creates a BlobStore backed by the engine_blobs
// table. Used when the engine shares a Postgres instance with the rest
// of the platform.
func NewPostgresBlobStore(pool *pgxpool.Pool) BlobStore {
	return &postgresBlobStore{pool: pool}
}

var _ BlobStore = (*postgresBlobStore)(nil)

func (s *postgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM engine_blobs WHERE key = $1`, key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("select blob %q: %w", key, err)
	}
	return data, nil
}

func (s *postgresBlobStore) Set(ctx context.Context, key string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO engine_blobs (key, data, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET data = $2, updated_at = $3`,
		key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert blob %q: %w", key, err)
	}
	return nil
}

func (s *postgresBlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM engine_blobs WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}
