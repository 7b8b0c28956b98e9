package server

import (
	"campusvibe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	UserID         string  `json:"userId"`
	Content        string  `json:"content"`
	Category       string  `json:"category"`
	ImageURL       *string `json:"imageUrl"`
	VideoURL       *string `json:"videoUrl"`
	ExpiresInHours *int    `json:"expiresInHours"`
}

// ownerRequest is the body of owner-only deletes.
type ownerRequest struct {
	UserID string `json:"userId"`
}

// ownerFrom reads the acting user from the body, falling back to ?userId=.
func ownerFrom(c *fiber.Ctx) (string, error) {
	var req ownerRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return "", err
		}
	}
	if req.UserID == "" {
		req.UserID = c.Query("userId")
	}
	return req.UserID, nil
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Posts newest first, optionally restricted to one category
// @Tags posts
// @Produce json
// @Param category query string false "confession, crush, meme, rant or compliment"
// @Success 200 {object} object{posts=[]models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "Post"
// @Success 201 {object} object{post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := actAs(c, req.UserID)

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:         req.UserID,
		Content:        req.Content,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		VideoURL:       req.VideoURL,
		ExpiresInHours: req.ExpiresInHours,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete own post
// @Description Comments and votes of the post are removed with it
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body ownerRequest true "Owner"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	userID, err := ownerFrom(c)
	if err != nil {
		return nil
	}
	ctx := actAs(c, userID)

	deleted, err := s.postService.DeletePost(ctx, service.DeletePostInput{UserID: userID, PostID: id})
	if err != nil {
		return respondError(c, err)
	}
	return respondDeleted(c, deleted, "Post")
}
