package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gridbase-inc/import-engine/pkg/apperrors"
)

// BlobStore is the persistence boundary for the mapping history: a single
// named blob read and written wholesale. Any local key-value storage
// satisfies it; the engine ships file, Redis and Postgres backends.
type BlobStore interface {
	// Get returns the blob stored under key, or apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the blob under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes the blob under key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

type fileBlobStore struct {
	dir string
}

// NewFileBlobStore creates a BlobStore that keeps each blob as a JSON
// file under dir. This is the default backend for single-node deployments.
func NewFileBlobStore(dir string) BlobStore {
	return &fileBlobStore{dir: dir}
}

var _ BlobStore = (*fileBlobStore)(nil)

func (s *fileBlobStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *fileBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("read blob %q: %w", key, err)
	}
	return data, nil
}

func (s *fileBlobStore) Set(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	// Write to a temp file and rename so readers never observe a
	// partially written blob.
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace blob %q: %w", key, err)
	}
	return nil
}

func (s *fileBlobStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}
