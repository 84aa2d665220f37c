package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/config"
)

// minioStorage keeps objects in an S3-compatible bucket using the same
// relative layout as the local backend. A single PutObject is atomic from
// the reader's point of view.
type minioStorage struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
	now    func() time.Time
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, log *zap.Logger) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &minioStorage{client: cli, bucket: cfg.Bucket, log: log, now: time.Now}, nil
}

func (m *minioStorage) Resolve(relPath string) (string, error) {
	c, err := CleanPath(relPath)
	if err != nil {
		return "", err
	}
	return m.bucket + "/" + c, nil
}

func (m *minioStorage) Save(ctx context.Context, r io.Reader, size int64, tenantCode, fileID, originalName string) (string, error) {
	key, err := ObjectPath(tenantCode, fileID, originalName, m.now())
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: map[string]string{"original-filename": originalName},
	})
	if err != nil {
		return "", apperr.Storage("save", key, err)
	}
	return key, nil
}

func (m *minioStorage) Load(ctx context.Context, relPath string) (io.ReadCloser, error) {
	key, err := CleanPath(relPath)
	if err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperr.Storage("load", key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, apperr.NotFound("object", relPath)
		}
		return nil, apperr.Storage("load", key, err)
	}
	return obj, nil
}

func (m *minioStorage) Delete(ctx context.Context, relPath string) error {
	key, err := CleanPath(relPath)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			m.log.Warn("object already absent", zap.String("path", key))
			return nil
		}
		return apperr.Storage("delete", key, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
