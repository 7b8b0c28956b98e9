package server

import (
	"campusvibe/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetActiveStories handles GET /api/stories
// @Summary List active stories
// @Description Stories younger than 24 hours, newest first
// @Tags stories
// @Produce json
// @Success 200 {object} object{stories=[]models.Story}
// @Router /stories [get]
func (s *Server) GetActiveStories(c *fiber.Ctx) error {
	stories, err := s.storyService.ListActiveStories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stories": stories})
}

// CreateStory handles POST /api/stories
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req struct {
		UserID   string  `json:"userId"`
		ImageURL string  `json:"imageUrl"`
		Caption  *string `json:"caption"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := actAs(c, req.UserID)

	story, err := s.storyService.CreateStory(ctx, service.CreateStoryInput{
		UserID:   req.UserID,
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"story": story})
}

// ViewStory handles POST /api/stories/:id/view
func (s *Server) ViewStory(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	found, err := s.storyService.ViewStory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return respondDeleted(c, false, "Story")
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteStory handles DELETE /api/stories/:id
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	userID, err := ownerFrom(c)
	if err != nil {
		return nil
	}
	ctx := actAs(c, userID)

	deleted, err := s.storyService.DeleteStory(ctx, service.DeleteStoryInput{UserID: userID, StoryID: id})
	if err != nil {
		return respondError(c, err)
	}
	return respondDeleted(c, deleted, "Story")
}
