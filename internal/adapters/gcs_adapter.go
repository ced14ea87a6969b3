package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"health-content-web/internal/config"

	"cloud.google.com/go/storage"
)

// GCSImageStore writes generated hero images to a Cloud Storage bucket.
type GCSImageStore struct {
	client *storage.Client
	bucket string
	cfg    config.Config
}

// NewGCSImageStore opens a storage client with application default credentials.
func NewGCSImageStore(ctx context.Context, cfg config.Config) (*GCSImageStore, error) {
	if cfg.HeroImageBucket == "" {
		return nil, fmt.Errorf("HERO_IMAGE_BUCKET is not set")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSImageStore{client: client, bucket: cfg.HeroImageBucket, cfg: cfg}, nil
}

// Save uploads data to object and returns its public URL.
func (s *GCSImageStore) Save(ctx context.Context, object string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write gs://%s/%s: %w", s.bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize gs://%s/%s: %w", s.bucket, object, err)
	}

	slog.InfoContext(ctx, "Hero image uploaded", "bucket", s.bucket, "object", object, "bytes", len(data))
	return s.cfg.HeroImageObjectURL(object), nil
}

func (s *GCSImageStore) Close() error {
	return s.client.Close()
}
