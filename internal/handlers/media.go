package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/services"
)

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload takes a multipart form: `file` plus `entity_type` and `entity_id`
// fields naming what the image belongs to.
func (mh *MediaHandler) Upload(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	entityType := c.PostForm("entity_type")
	entityID, ok := parseUUIDForm(c, "entity_id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, apierr.Validation("missing_file", "a file field is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, apierr.Validation("bad_file", "could not open uploaded file"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, apierr.Validation("bad_file", "could not read uploaded file"))
		return
	}

	media, err := mh.mediaService.UploadImage(c.Request.Context(), entityType, entityID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, media)
}

func (mh *MediaHandler) ListByEntity(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID, ok := parseUUIDQuery(c, "entity_id")
	if !ok {
		return
	}
	media, err := mh.mediaService.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, media)
}

func (mh *MediaHandler) Delete(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	id, ok := parseUUIDParam(c, "media_id")
	if !ok {
		return
	}
	if err := mh.mediaService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "media deleted"})
}
