package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/stamina-web-api/internal/config"
	"github.com/noah-isme/stamina-web-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status          string                   `json:"status"`
	Timestamp       time.Time                `json:"timestamp"`
	Service         string                   `json:"service"`
	Environment     string                   `json:"environment"`
	Persistence     config.PersistenceStatus `json:"persistence"`
	EmailConfigured bool                     `json:"email_configured"`
}

// HealthCheck returns a handler that reports application health information.
// Missing credentials do not make the service unhealthy; they are reported so
// operators can spot a half-configured deployment.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:          "ok",
			Timestamp:       time.Now().UTC(),
			Service:         cfg.AppName,
			Environment:     cfg.AppEnv,
			Persistence:     cfg.Persistence(),
			EmailConfigured: cfg.EmailConfigured(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
