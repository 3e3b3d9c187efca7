package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/storage"
	"github.com/coursewagon/coursewagon-backend/internal/types"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type MediaService interface {
	UploadImage(ctx context.Context, entityType string, entityID uuid.UUID, data []byte, contentType string) (*types.Media, error)
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*types.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type mediaService struct {
	log       *logger.Logger
	mediaRepo repos.MediaRepo
	storage   *storage.Service
}

func NewMediaService(log *logger.Logger, mediaRepo repos.MediaRepo, store *storage.Service) MediaService {
	return &mediaService{
		log:       log.With("service", "MediaService"),
		mediaRepo: mediaRepo,
		storage:   store,
	}
}

func (s *mediaService) UploadImage(ctx context.Context, entityType string, entityID uuid.UUID, data []byte, contentType string) (*types.Media, error) {
	entityType = strings.TrimSpace(strings.ToLower(entityType))
	switch entityType {
	case "course", "subject", "content":
	default:
		return nil, apierr.Validation("bad_entity_type", "entity_type must be course, subject, or content")
	}
	if len(data) == 0 {
		return nil, apierr.Validation("empty_file", "uploaded file is empty")
	}
	if len(data) > maxUploadBytes {
		return nil, apierr.Validation("file_too_large", "uploads are limited to 10 MB")
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, apierr.Validation("bad_content_type", "only jpeg, png, webp, and gif images are accepted")
	}

	blobPath := path.Join(entityType, entityID.String(), uuid.New().String()+ext)
	url, provider, err := s.storage.Upload(ctx, data, blobPath, contentType)
	if err != nil {
		return nil, apierr.Upstream("upload_failed", err)
	}

	media := &types.Media{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		URL:        url,
		Provider:   provider,
	}
	if err := s.mediaRepo.Create(ctx, nil, media); err != nil {
		// The blob landed but the row didn't; try to undo the upload so we
		// don't leak an unreferenced blob.
		if _, dErr := s.storage.Delete(ctx, url); dErr != nil {
			s.log.Warn("Orphaned blob after failed media insert", "url", url, "error", dErr)
		}
		return nil, fmt.Errorf("create media row: %w", err)
	}
	s.log.Info("Media uploaded", "media_id", media.ID, "provider", provider, "entity_type", entityType)
	return media, nil
}

func (s *mediaService) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*types.Media, error) {
	return s.mediaRepo.ListByEntity(ctx, nil, entityType, entityID)
}

func (s *mediaService) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.mediaRepo.GetByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "media_not_found", "media not found")
	}
	deleted, err := s.storage.Delete(ctx, media.URL)
	if err != nil {
		return apierr.Upstream("blob_delete_failed", err)
	}
	if !deleted {
		s.log.Warn("Blob not deleted, removing row anyway", "media_id", id, "url", media.URL)
	}
	return s.mediaRepo.Delete(ctx, nil, id)
}
