package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/internal/service"
	"github.com/noah-isme/stamina-web-api/internal/utils"
)

// NotifyHandler exposes the notification dispatcher to trusted services.
type NotifyHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotifyHandler constructs a notify handler.
func NewNotifyHandler(service service.NotificationService, logger zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{
		service: service,
		logger:  logger.With().Str("component", "notify_handler").Logger(),
	}
}

// Register wires the dispatch route. Middlewares run before the handler, typically
// service authentication.
func (h *NotifyHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, middlewares...), h.send)
	router.Post("", handlers...)
}

func (h *NotifyHandler) send(c *fiber.Ctx) error {
	var payload dto.ContactNotification
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	err := h.service.Notify(c.UserContext(), payload)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(dto.NotificationResponse{
			Success: true,
			Message: fmt.Sprintf("Email sent successfully to %s", h.service.Recipient()),
		})
	case errors.Is(err, service.ErrContactMissingFields):
		return utils.SendError(c, fiber.StatusBadRequest, "Missing required fields")
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("contact_id", payload.ContactID).Msg("failed to send contact notification")
		return utils.SendErrorWithDetails(c, fiber.StatusInternalServerError, "Failed to send email", err.Error())
	}
}
