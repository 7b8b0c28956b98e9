package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserPosts handles GET /api/users/:userId/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := requireParam(c, "userId")
	if err != nil {
		return nil
	}
	posts, err := s.postService.GetUserPosts(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetUserStories handles GET /api/users/:userId/stories
// Unlike GET /api/stories this includes the user's expired stories.
func (s *Server) GetUserStories(c *fiber.Ctx) error {
	userID, err := requireParam(c, "userId")
	if err != nil {
		return nil
	}
	stories, err := s.storyService.ListUserStories(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stories": stories})
}

// GetUserPolls handles GET /api/users/:userId/polls
func (s *Server) GetUserPolls(c *fiber.Ctx) error {
	userID, err := requireParam(c, "userId")
	if err != nil {
		return nil
	}
	polls, err := s.pollService.ListUserPolls(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"polls": polls})
}
