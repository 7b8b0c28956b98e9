package server

import (
	"campusvibe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type voteRequest struct {
	UserID    string  `json:"userId"`
	PostID    *string `json:"postId"`
	CommentID *string `json:"commentId"`
	VoteType  int     `json:"voteType"`
}

// Vote handles POST /api/vote
// @Summary Vote on a post or comment
// @Description Voting the same way twice removes the vote; voting the other way switches it.
// @Description Exactly one of postId and commentId must be set.
// @Tags votes
// @Accept json
// @Produce json
// @Param request body voteRequest true "Vote"
// @Success 200 {object} models.VoteCounts
// @Failure 400 {object} models.ErrorResponse
// @Router /vote [post]
func (s *Server) Vote(c *fiber.Ctx) error {
	var req voteRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := actAs(c, req.UserID)

	counts, err := s.voteService.Vote(ctx, service.CastVoteInput{
		UserID:    req.UserID,
		PostID:    req.PostID,
		CommentID: req.CommentID,
		VoteType:  req.VoteType,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}

// GetUserVotes handles GET /api/votes?userId=...
// With postId or commentId it returns {vote} holding that vote or null.
func (s *Server) GetUserVotes(c *fiber.Ctx) error {
	userID := c.Query("userId")
	ctx := actAs(c, userID)

	postID, commentID := c.Query("postId"), c.Query("commentId")
	if postID != "" || commentID != "" {
		vote, err := s.voteService.GetUserVote(ctx, userID, &postID, &commentID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"vote": vote})
	}

	votes, err := s.voteService.ListUserVotes(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"votes": votes})
}
