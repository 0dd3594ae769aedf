package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/internal/i18n"
	"github.com/noah-isme/stamina-web-api/internal/service"
	"github.com/noah-isme/stamina-web-api/internal/utils"
)

// ContactHandler handles contact form submissions from the public website.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes.
func (h *ContactHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, middlewares...), h.submit)
	router.Post("", handlers...)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var payload dto.ContactRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	payload.Locale = i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage))

	response, err := h.service.Submit(c.UserContext(), payload)
	if err == nil {
		return c.Status(fiber.StatusOK).JSON(response)
	}

	var configErr *service.ConfigurationError
	var persistErr *service.PersistenceError
	switch {
	case errors.Is(err, service.ErrContactMissingFields):
		return utils.SendError(c, fiber.StatusBadRequest, "Missing required fields")
	case errors.As(err, &configErr):
		return utils.SendErrorResponse(c, fiber.StatusServiceUnavailable, utils.ErrorResponse{
			Error:   "Database not configured",
			Message: i18n.T(payload.Locale, i18n.DatabaseNotConfigured),
			Config:  configErr.Status,
		})
	case errors.Is(err, service.ErrContactInvalidEmail):
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid email address")
	case errors.Is(err, service.ErrContactDuplicate):
		return utils.SendError(c, fiber.StatusTooManyRequests, "Duplicate submission")
	case errors.As(err, &persistErr):
		return utils.SendErrorWithDetails(c, fiber.StatusInternalServerError, "Failed to save contact submission", persistErr.Detail())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to process contact submission")
		return utils.SendErrorResponse(c, fiber.StatusInternalServerError, utils.ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}
}
