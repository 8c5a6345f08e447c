// Package storage provides durable object storage for generated images via an
// S3-compatible endpoint (MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL overrides where uploaded objects are served from (e.g. a CDN).
	// When empty, URLs are built from the endpoint and bucket.
	PublicBaseURL string
}

// Store uploads image objects and resolves their public URLs.
type Store struct {
	client *minio.Client
	cfg    Config
}

// NewStore creates a Store connected to the configured S3-compatible endpoint.
func NewStore(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Store{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}

	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}

	return nil
}

// Upload stores the object under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.PublicURL(key), nil
}

// PublicURL returns the durable URL for an object key.
func (s *Store) PublicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key
	}

	endpoint := s.client.EndpointURL()

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(endpoint.String(), "/"), s.cfg.Bucket, key)
}

// ObjectKey generates a unique key for a new image: millisecond timestamp plus a
// short random suffix, so concurrent uploads never collide.
func ObjectKey(now time.Time, ext string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]

	if ext == "" {
		ext = "png"
	}

	return fmt.Sprintf("img_%d_%s.%s", now.UnixMilli(), suffix, ext)
}
