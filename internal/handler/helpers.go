package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/middleware"
	"github.com/noah-isme/stamina-web-api/internal/utils"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// ErrorHandler renders errors that escaped a handler, including recovered panics.
// Fiber errors keep their status code; anything else is an internal error.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	base := logger.With().Str("component", "error_handler").Logger()
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}

		requestLogger(base, c).Error().Err(err).Str("path", c.Path()).Msg("unhandled request error")
		return utils.SendErrorResponse(c, fiber.StatusInternalServerError, utils.ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}
}
