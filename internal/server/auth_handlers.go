package server

import (
	"github.com/gofiber/fiber/v2"
)

// Authenticate handles POST /api/auth
// @Summary Resolve a device to an anonymous user
// @Description Returns the user bound to the device identifier, creating it on first contact
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{deviceId=string} true "Device identifier"
// @Success 200 {object} object{user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth [post]
func (s *Server) Authenticate(c *fiber.Ctx) error {
	var req struct {
		DeviceID string `json:"deviceId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.DeviceID)
	if err != nil {
		return respondError(c, err)
	}
	actAs(c, user.ID)
	return c.JSON(fiber.Map{"user": user})
}
