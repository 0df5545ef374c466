package server

import (
	"clipstream/internal/models"
	"clipstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
//
// Query parameters:
//
//	cursor - id of the last video from the previous page (optional)
//	limit  - page size, clamped to [1, 20], default 10
func (s *Server) GetFeed(c *fiber.Ctx) error {
	in := service.FeedInput{
		Limit: c.QueryInt("limit", 0),
	}

	if raw := c.Query("cursor"); raw != "" {
		cursor := c.QueryInt("cursor", -1)
		if cursor <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid cursor"))
		}
		id := uint(cursor)
		in.Cursor = &id
	}

	if viewerID, ok := s.optionalUserID(c); ok {
		in.ViewerID = viewerID
	}

	page, err := s.feedService.GetFeed(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	if page.Videos == nil {
		page.Videos = []*models.Video{}
	}
	return c.JSON(page)
}
