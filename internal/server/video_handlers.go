package server

import (
	"fmt"
	"io"

	"clipstream/internal/models"
	"clipstream/internal/service"
	"clipstream/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// CreateVideo handles POST /api/videos
//
// The binary payload must already be stored (see UploadVideo); this endpoint
// only records metadata.
func (s *Server) CreateVideo(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req service.CreateVideoInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	video, err := s.videoService.CreateVideo(c.Context(), userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// GetVideo handles GET /api/videos/:id
func (s *Server) GetVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	video, getErr := s.videoService.GetVideo(c.Context(), videoID, viewerID)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}
	return c.JSON(video)
}

// GetUserVideos handles GET /api/users/:id/videos
func (s *Server) GetUserVideos(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, service.DefaultFeedLimit)
	viewerID, _ := s.optionalUserID(c)

	videos, listErr := s.videoService.GetUserVideos(c.Context(), userID, p.Limit, p.Offset, viewerID)
	if listErr != nil {
		return respondServiceError(c, listErr)
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return c.JSON(fiber.Map{"videos": videos})
}

// UploadVideo handles POST /api/uploads/video
//
// Accepts a multipart form with a "file" part. The payload must carry a
// video/* content type and fit the configured size cap. On success the
// response holds the URL to submit with CreateVideo.
func (s *Server) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	maxBytes := int64(s.config.MaxVideoUploadMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.config.MaxVideoUploadMB)))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.IsVideoContentType(contentType) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File must be a video"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if int64(len(content)) > maxBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.config.MaxVideoUploadMB)))
	}

	stored, err := s.store.Save(c.Context(), storage.ObjectInput{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Content:     content,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(stored)
}

// UploadThumbnail handles POST /api/uploads/thumbnail
func (s *Server) UploadThumbnail(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	thumb, upErr := s.thumbnailService.Upload(c.Context(), service.UploadThumbnailInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if upErr != nil {
		return respondServiceError(c, upErr)
	}

	return c.Status(fiber.StatusCreated).JSON(thumb)
}
