package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/stamina-web-api/internal/config"
	"github.com/noah-isme/stamina-web-api/internal/handler"
	"github.com/noah-isme/stamina-web-api/internal/middleware"
	"github.com/noah-isme/stamina-web-api/internal/observability"
)

// NotifyPath is the service-to-service dispatch endpoint. It carries its own CORS policy.
const NotifyPath = "/api/notify-email"

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContactHandler *handler.ContactHandler
	NotifyHandler  *handler.NotifyHandler
	ImageHandler   *handler.ImageHandler
	// ImageDir is served under /generated-images when images are stored locally.
	ImageDir string
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.ContactHandler != nil {
		contact := api.Group("/contact")
		deps.ContactHandler.Register(contact, middleware.RateLimit("contact", cfg.ContactRateLimit, time.Minute))
	}

	if deps.NotifyHandler != nil {
		notify := app.Group(NotifyPath, middleware.ServiceCORS())
		deps.NotifyHandler.Register(notify, middleware.ServiceTokenProtected(cfg.NotifyServiceSecret))
	}

	if deps.ImageHandler != nil {
		deps.ImageHandler.Register(api.Group("/generate-image"))
	}

	if deps.ImageDir != "" {
		app.Static("/generated-images", deps.ImageDir)
	}
}
