package server

import (
	"campusvibe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPollRequest struct {
	UserID         string   `json:"userId"`
	Question       string   `json:"question"`
	Category       string   `json:"category"`
	Options        []string `json:"options"`
	ExpiresInHours *int     `json:"expiresInHours"`
}

type votePollRequest struct {
	UserID   string `json:"userId"`
	PollID   string `json:"pollId"`
	OptionID string `json:"optionId"`
}

// GetPolls handles GET /api/polls
// @Summary List polls
// @Description Polls newest first with their options. With userId each poll carries userVotedOptionId.
// @Tags polls
// @Produce json
// @Param category query string false "Category filter"
// @Param userId query string false "Requesting user"
// @Success 200 {object} object{polls=[]models.Poll}
// @Failure 400 {object} models.ErrorResponse
// @Router /polls [get]
func (s *Server) GetPolls(c *fiber.Ctx) error {
	userID := c.Query("userId")
	ctx := actAs(c, userID)

	polls, err := s.pollService.ListPolls(ctx, c.Query("category"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"polls": polls})
}

// CreatePoll handles POST /api/polls
// @Summary Create a poll
// @Tags polls
// @Accept json
// @Produce json
// @Param request body createPollRequest true "Poll with 2 to 6 options"
// @Success 201 {object} object{poll=models.Poll}
// @Failure 400 {object} models.ErrorResponse
// @Router /polls [post]
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	var req createPollRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := actAs(c, req.UserID)

	poll, err := s.pollService.CreatePoll(ctx, service.CreatePollInput{
		UserID:         req.UserID,
		Question:       req.Question,
		Category:       req.Category,
		Options:        req.Options,
		ExpiresInHours: req.ExpiresInHours,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"poll": poll})
}

// VotePoll handles POST /api/polls/vote
// @Summary Vote in a poll
// @Description A user votes once per poll. A second vote is rejected with 400.
// @Tags polls
// @Accept json
// @Produce json
// @Param request body votePollRequest true "Choice"
// @Success 200 {object} object{success=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/vote [post]
func (s *Server) VotePoll(c *fiber.Ctx) error {
	var req votePollRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := actAs(c, req.UserID)

	if err := s.pollService.VotePoll(ctx, service.VotePollInput{
		UserID:   req.UserID,
		PollID:   req.PollID,
		OptionID: req.OptionID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeletePoll handles DELETE /api/polls/:id
func (s *Server) DeletePoll(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	userID, err := ownerFrom(c)
	if err != nil {
		return nil
	}
	ctx := actAs(c, userID)

	deleted, err := s.pollService.DeletePoll(ctx, service.DeletePollInput{UserID: userID, PollID: id})
	if err != nil {
		return respondError(c, err)
	}
	return respondDeleted(c, deleted, "Poll")
}
