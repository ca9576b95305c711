package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kosame/backend/internal/config"
)

// ErrAlreadyExists is returned by Store when bytes are already present under
// the requested name. It is the collision backstop for randomized names: two
// uploads racing to the same name must not overwrite each other.
var ErrAlreadyExists = errors.New("file already exists")

// FileStore persists raw uploaded bytes keyed by storage name. It has no
// metadata awareness; the database row and the stored bytes are kept
// consistent only by the upload/delete sequences in the services layer.
type FileStore interface {
	// Store writes the bytes under name, failing with ErrAlreadyExists
	// instead of overwriting.
	Store(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Delete removes the bytes if present. Absence is not an error.
	Delete(ctx context.Context, name string) error
}

func New(cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Backend {
	case "disk":
		return NewDiskStore(cfg.Root)
	case "minio":
		client, err := NewMinIOStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(context.Background()); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
