package handler

import (
	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError writes {message} or {message, errors} with the status of the error kind.
// Internal errors are logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, err error) error {
	appErr := apperr.As(err)
	status := appErr.HTTPStatus()

	if appErr.Kind == apperr.KindInternal {
		logger.Get().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{"message": "Internal server error"})
	}

	if len(appErr.Fields) > 0 {
		return c.Status(status).JSON(fiber.Map{
			"message": appErr.Message,
			"errors":  appErr.Fields,
		})
	}
	return c.Status(status).JSON(fiber.Map{"message": appErr.Message})
}

// parseBody decodes the JSON body into dst
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("Invalid JSON")
	}
	return nil
}

// paramID parses the :id style route parameter
func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("Invalid %s", name)
	}
	return id, nil
}

// queryID parses an optional uuid query parameter; empty means uuid.Nil
func queryID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validationf("Invalid %s", name)
	}
	return id, nil
}
