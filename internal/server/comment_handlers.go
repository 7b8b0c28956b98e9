package server

import (
	"campusvibe/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:postId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := requireParam(c, "postId")
	if err != nil {
		return nil
	}
	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/comments
// @Summary Comment on a post
// @Description Adds a comment and increments the post's comment count
// @Tags comments
// @Accept json
// @Produce json
// @Param request body object{userId=string,postId=string,content=string} true "Comment"
// @Success 201 {object} object{comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		UserID  string `json:"userId"`
		PostID  string `json:"postId"`
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := actAs(c, req.UserID)

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:  req.UserID,
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	userID, err := ownerFrom(c)
	if err != nil {
		return nil
	}
	ctx := actAs(c, userID)

	deleted, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{UserID: userID, CommentID: id})
	if err != nil {
		return respondError(c, err)
	}
	return respondDeleted(c, deleted, "Comment")
}
