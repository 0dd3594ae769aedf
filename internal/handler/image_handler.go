package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/internal/service"
	"github.com/noah-isme/stamina-web-api/internal/utils"
)

// ImageHandler serves on-demand marketing image generation.
type ImageHandler struct {
	service service.ImageService
	logger  zerolog.Logger
}

// NewImageHandler constructs an image handler.
func NewImageHandler(service service.ImageService, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		service: service,
		logger:  logger.With().Str("component", "image_handler").Logger(),
	}
}

// Register wires image routes.
func (h *ImageHandler) Register(router fiber.Router) {
	router.Post("", h.generate)
}

func (h *ImageHandler) generate(c *fiber.Ctx) error {
	var payload dto.ImageGenerateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	response, err := h.service.Generate(c.UserContext(), payload)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(response)
	case errors.Is(err, service.ErrImagePromptRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "Prompt is required")
	case errors.Is(err, service.ErrImageGenerationNotConfigured):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "Image generation not configured")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("image generation request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
}
