package server

import (
	"context"
	"errors"
	"strings"

	"campusvibe/internal/middleware"
	"campusvibe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// respondError answers with the status matching err's AppError code.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the JSON body into dst. On failure it writes a 400 and
// returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// requireParam returns a non-empty route parameter or writes a 400.
func requireParam(c *fiber.Ctx, param string) (string, error) {
	v := strings.TrimSpace(c.Params(param))
	if v == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return "", errResponseWritten
	}
	return v, nil
}

// actAs records the acting user for logging and returns the request context.
func actAs(c *fiber.Ctx, userID string) context.Context {
	ctx := c.UserContext()
	if userID != "" {
		c.Locals("userID", userID)
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
	}
	return ctx
}

// respondDeleted maps a delete result to 200 or 404.
func respondDeleted(c *fiber.Ctx, deleted bool, resource string) error {
	if !deleted {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: resource + " not found or not owned by user"})
	}
	return c.JSON(fiber.Map{"success": true})
}
