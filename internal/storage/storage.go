// Package storage abstracts over interchangeable blob-storage backends so a
// single upload/delete call works regardless of which cloud credentials are
// configured.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

// Backend is one blob store. A backend is available when its constructor
// succeeds (credentials present, target reachable enough to build a client).
type Backend interface {
	Name() string
	Upload(ctx context.Context, data []byte, path string, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
	// OwnsURL reports whether this backend produced the given URL; delete
	// routes on it.
	OwnsURL(url string) bool
}

// Service walks backends in priority order: the first available one is
// primary, the rest are upload fallbacks. Delete never falls back — a blob
// lives on exactly one backend.
type Service struct {
	log      *logger.Logger
	backends []Backend
}

// New probes GCS, then Azure Blob, then local disk. Zero available backends
// is a fatal construction error.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "StorageService")

	var backends []Backend
	if b, err := NewGCSBackend(serviceLog); err != nil {
		serviceLog.Warn("GCS backend unavailable", "error", err)
	} else {
		backends = append(backends, b)
	}
	if b, err := NewAzureBackend(serviceLog); err != nil {
		serviceLog.Warn("Azure backend unavailable", "error", err)
	} else {
		backends = append(backends, b)
	}
	if b, err := NewLocalBackend(serviceLog); err != nil {
		serviceLog.Warn("Local backend unavailable", "error", err)
	} else {
		backends = append(backends, b)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no storage backend configured")
	}
	serviceLog.Info("Storage backends ready", "primary", backends[0].Name(), "available", len(backends))
	return &Service{log: serviceLog, backends: backends}, nil
}

// NewWithBackends keeps the given priority order; used by tests and by
// callers that already built their backends.
func NewWithBackends(log *logger.Logger, backends ...Backend) (*Service, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("no storage backend configured")
	}
	return &Service{log: log.With("service", "StorageService"), backends: backends}, nil
}

func (s *Service) Primary() string {
	return s.backends[0].Name()
}

// Upload tries the primary, then each remaining backend in priority order.
// A single exception moves on immediately; there is no retry or backoff. If
// every backend fails the error aggregates all failures, leading with the
// primary's original reason.
func (s *Service) Upload(ctx context.Context, data []byte, path string, contentType string) (string, string, error) {
	var failures []string
	for i, backend := range s.backends {
		url, err := backend.Upload(ctx, data, path, contentType)
		if err == nil {
			if i > 0 {
				s.log.Warn("Upload fell back", "backend", backend.Name(), "path", path, "primary_error", failures[0])
			}
			return url, backend.Name(), nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", backend.Name(), err))
		s.log.Warn("Upload failed, trying next backend", "backend", backend.Name(), "path", path, "error", err)
	}
	return "", "", fmt.Errorf("all storage backends failed (primary %s): %s", s.backends[0].Name(), strings.Join(failures, "; "))
}

// Delete infers the owning backend from the URL shape. An unrecognized URL
// is a no-op that returns false; the media row is metadata, not the source
// of truth, so a dangling blob is tolerable.
func (s *Service) Delete(ctx context.Context, url string) (bool, error) {
	for _, backend := range s.backends {
		if !backend.OwnsURL(url) {
			continue
		}
		if err := backend.Delete(ctx, url); err != nil {
			return false, fmt.Errorf("delete from %s: %w", backend.Name(), err)
		}
		return true, nil
	}
	s.log.Warn("No backend recognizes URL, skipping delete", "url", url)
	return false, nil
}
