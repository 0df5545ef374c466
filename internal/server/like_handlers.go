package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikeVideo handles POST /api/videos/:id/like
func (s *Server) LikeVideo(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if likeErr := s.likeService.Like(ctx, userID, videoID); likeErr != nil {
		return respondServiceError(c, likeErr)
	}

	// Return the updated video so clients can render the new count without a
	// second round trip.
	video, err := s.videoService.GetVideo(ctx, videoID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// UnlikeVideo handles DELETE /api/videos/:id/like
func (s *Server) UnlikeVideo(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	videoID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if unlikeErr := s.likeService.Unlike(ctx, userID, videoID); unlikeErr != nil {
		return respondServiceError(c, unlikeErr)
	}

	video, err := s.videoService.GetVideo(ctx, videoID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(video)
}

// GetMyLikes handles GET /api/users/me/likes
func (s *Server) GetMyLikes(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	ids, err := s.likeService.LikedVideoIDs(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return c.JSON(fiber.Map{"video_ids": ids})
}
