package server

import (
	"strings"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name   *string `json:"name"`
		Avatar *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) > 100 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Name is too long"))
		}
		user.Name = name
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, getErr := s.userRepo.GetByID(c.Context(), userID)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}
	return c.JSON(user.Public())
}
