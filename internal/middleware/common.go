package middleware

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger *zerolog.Logger
	// ServicePaths are left to ServiceCORS instead of the site-wide CORS policy.
	ServicePaths []string
}

// Register attaches the common middlewares used across the API.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	app.Use(CorrelationID())
	app.Use(Observability(requestLogger))
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		Next: func(c *fiber.Ctx) bool {
			for _, prefix := range cfg.ServicePaths {
				if strings.HasPrefix(c.Path(), prefix) {
					return true
				}
			}
			return false
		},
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language",
		AllowMethods: "GET,POST,OPTIONS",
	}))
}
