package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

type gcsBackend struct {
	log    *logger.Logger
	client *gcs.Client
	bucket string
}

func NewGCSBackend(log *logger.Logger) (Backend, error) {
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET_NAME"))
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET_NAME")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	saPath := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	var client *gcs.Client
	var err error
	if saPath != "" {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(gcs.ScopeReadWrite))
	} else {
		client, err = gcs.NewClient(ctx, option.WithScopes(gcs.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	return &gcsBackend{
		log:    log.With("backend", "gcs"),
		client: client,
		bucket: bucket,
	}, nil
}

func (b *gcsBackend) Name() string { return "gcs" }

func (b *gcsBackend) Upload(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(path).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close GCS writer: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, path), nil
}

func (b *gcsBackend) OwnsURL(url string) bool {
	return strings.HasPrefix(url, fmt.Sprintf("https://storage.googleapis.com/%s/", b.bucket))
}

func (b *gcsBackend) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, fmt.Sprintf("https://storage.googleapis.com/%s/", b.bucket))
	if key == url || key == "" {
		return fmt.Errorf("cannot extract object key from %q", url)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := b.client.Bucket(b.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete GCS object %q: %w", key, err)
	}
	return nil
}
