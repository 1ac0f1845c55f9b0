// Package storage wraps the object store used by the direct upload
// fallback path.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sopworks/sopdb/internal/config"
)

// ObjectStore is the surface the upload pipeline needs from a bucket.
type ObjectStore interface {
	// EnsureBucket creates the bucket when missing. Callers treat failure
	// as non-fatal.
	EnsureBucket(ctx context.Context) error
	// Put stores the object and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// MinioStore implements ObjectStore on a MinIO/S3 endpoint.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore builds a store from configuration. Returns an error when
// the storage section is absent so callers can classify it as
// storage-misconfigured.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("storage endpoint or credentials missing")
	}

	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	publicURL := cfg.StoragePublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	log.Printf("Created storage bucket %s", s.bucket)
	return nil
}

// Put uploads the object and returns its public URL.
func (s *MinioStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// ObjectKey builds the storage path for a step's media file:
// {sopID}/{stepID}/{type}_{timestamp}.{ext}
func ObjectKey(sopID, stepID, mediaType, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s/%s_%d.%s", sopID, stepID, mediaType, time.Now().UnixMilli(), ext)
}
