package handler_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/stamina-web-api/internal/config"
	"github.com/noah-isme/stamina-web-api/internal/handler"
)

type healthResponse struct {
	Success bool                   `json:"success"`
	Data    handler.HealthResponse `json:"data"`
}

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{
		AppName:           "STAMINA PENGJU API",
		AppEnv:            "test",
		PersistenceDriver: config.PersistenceDriverSupabase,
		SupabaseURL:       "https://demo.supabase.co",
	}

	app := fiber.New()
	app.Get("/api/health", handler.HealthCheck(cfg))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload healthResponse
	decodeResponse(t, resp, &payload)
	assert.True(t, payload.Success)
	assert.Equal(t, "ok", payload.Data.Status)
	assert.Equal(t, cfg.AppName, payload.Data.Service)
	assert.Equal(t, cfg.AppEnv, payload.Data.Environment)
	assert.Equal(t, config.PersistenceStatus{HasURL: true}, payload.Data.Persistence)
	assert.False(t, payload.Data.EmailConfigured)
	assert.WithinDuration(t, time.Now().UTC(), payload.Data.Timestamp, 2*time.Second)
}

func TestHealthCheckThroughRouter(t *testing.T) {
	app := newTestEnv().app()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "STAMINA PENGJU API", resp.Header.Get("X-Application"))

	var payload healthResponse
	decodeResponse(t, resp, &payload)
	assert.True(t, payload.Data.Persistence.IsConfigured)
	assert.True(t, payload.Data.EmailConfigured)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestEnv().app()

	resp := postJSON(t, app, "/api/contact", map[string]string{"name": "Ana", "email": "ana@example.com", "message": "Hola"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `stamina_contact_submissions_total{outcome="accepted"}`)
	assert.Contains(t, string(body), `stamina_http_requests_total`)
}
