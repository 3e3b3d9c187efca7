package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

// localBackend writes blobs to disk and serves them from /media. Last in the
// priority order; it exists so development and single-node deployments work
// with no cloud credentials at all.
type localBackend struct {
	log     *logger.Logger
	rootDir string
	baseURL string
}

func NewLocalBackend(log *logger.Logger) (Backend, error) {
	rootDir := strings.TrimSpace(os.Getenv("LOCAL_MEDIA_DIR"))
	if rootDir == "" {
		return nil, fmt.Errorf("missing LOCAL_MEDIA_DIR")
	}
	baseURL := strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	return &localBackend{
		log:     log.With("backend", "local"),
		rootDir: rootDir,
		baseURL: baseURL,
	}, nil
}

func (b *localBackend) Name() string { return "local" }

func (b *localBackend) Upload(_ context.Context, data []byte, path string, _ string) (string, error) {
	clean := filepath.Clean("/" + path)
	full := filepath.Join(b.rootDir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media subdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return b.baseURL + "/media" + filepath.ToSlash(clean), nil
}

func (b *localBackend) OwnsURL(url string) bool {
	return strings.HasPrefix(url, b.baseURL+"/media/")
}

func (b *localBackend) Delete(_ context.Context, url string) error {
	rel := strings.TrimPrefix(url, b.baseURL+"/media/")
	if rel == url || rel == "" {
		return fmt.Errorf("cannot extract media path from %q", url)
	}
	full := filepath.Join(b.rootDir, filepath.Clean("/"+rel))
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
