package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/kosame/backend/pkg/logger"
)

// DiskStore keeps uploaded bytes as plain files under a single root
// directory, which doubles as the static-serving root.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) path(name string) string {
	// Names are generated server-side, but never trust them as paths.
	return filepath.Join(s.root, filepath.Base(name))
}

func (s *DiskStore) Store(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	f, err := os.OpenFile(s.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrAlreadyExists
		}
		return err
	}

	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		logger.Error("disk_store_failed", copyErr, map[string]interface{}{
			"name": name,
			"size": size,
		})
		return copyErr
	}
	return closeErr
}

func (s *DiskStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		logger.Error("disk_delete_failed", err, map[string]interface{}{
			"name": name,
		})
		return err
	}
	return nil
}
