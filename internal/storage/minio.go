package storage

import (
	"context"
	"io"

	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore is the object-storage FileStore backend for deployments that
// don't keep uploads on local disk. Serving the public URLs is then the job
// of the bucket or a fronting proxy.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOStore{client: client, bucket: cfg.MinIOBucket}, nil
}

func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

func (m *MinIOStore) Store(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	// Object stores overwrite silently, so the no-overwrite invariant needs
	// an existence probe first. The window between Stat and Put is accepted;
	// the name space is 64^N.
	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err == nil {
		return ErrAlreadyExists
	} else if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" && resp.StatusCode != 404 {
		return err
	}

	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("minio_store_failed", err, map[string]interface{}{
			"object_name": name,
			"size":        size,
			"bucket":      m.bucket,
		})
	}
	return err
}

func (m *MinIOStore) Delete(ctx context.Context, name string) error {
	err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
	if err != nil {
		logger.Error("minio_delete_failed", err, map[string]interface{}{
			"object_name": name,
			"bucket":      m.bucket,
		})
	}
	return err
}
