package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stamina-web-api/internal/config"
	"github.com/noah-isme/stamina-web-api/internal/handler"
	"github.com/noah-isme/stamina-web-api/internal/middleware"
	"github.com/noah-isme/stamina-web-api/internal/models"
	"github.com/noah-isme/stamina-web-api/internal/repository"
	"github.com/noah-isme/stamina-web-api/internal/router"
	"github.com/noah-isme/stamina-web-api/internal/service"
	"github.com/noah-isme/stamina-web-api/pkg/ai"
	"github.com/noah-isme/stamina-web-api/pkg/mailer"
)

const (
	testServiceSecret = "notify-secret"
	generatedID       = "5f0c6c2e-3b1f-4c89-9f0e-2b7f1d4a9c11"
)

type contactRepoStub struct {
	created []models.ContactSubmission
	err     error
}

func (r *contactRepoStub) Create(_ context.Context, submission *models.ContactSubmission) error {
	if r.err != nil {
		return r.err
	}
	submission.ID = generatedID
	submission.CreatedAt = time.Now()
	r.created = append(r.created, *submission)
	return nil
}

type senderStub struct {
	messages []mailer.Message
	err      error
}

func (s *senderStub) Send(_ context.Context, msg mailer.Message) (string, error) {
	s.messages = append(s.messages, msg)
	if s.err != nil {
		return "", s.err
	}
	return "msg-1", nil
}

type generatorStub struct {
	data []byte
	err  error
}

func (g *generatorStub) Generate(_ context.Context, _ ai.ImageRequest) (ai.GeneratedImage, error) {
	if g.err != nil {
		return ai.GeneratedImage{}, g.err
	}
	return ai.GeneratedImage{Data: g.data}, nil
}

type testEnv struct {
	repo        *contactRepoStub
	sender      *senderStub
	persistence config.PersistenceStatus
	cache       *redis.Client
	images      service.ImageService
	imageDir    string
	cfg         config.Config
}

func newTestEnv() *testEnv {
	return &testEnv{
		repo:        &contactRepoStub{},
		sender:      &senderStub{},
		persistence: config.PersistenceStatus{HasURL: true, HasKey: true, IsConfigured: true},
		cfg: config.Config{
			AppName:             "STAMINA PENGJU API",
			AppEnv:              "test",
			PersistenceDriver:   config.PersistenceDriverSupabase,
			SupabaseURL:         "https://demo.supabase.co",
			SupabaseKey:         "anon-key",
			MailAPIKey:          "re_test",
			MailRecipient:       "gerente@staminaintl.com",
			ContactRateLimit:    100,
			NotifyServiceSecret: testServiceSecret,
		},
	}
}

func (e *testEnv) app() *fiber.App {
	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())

	notifier := service.NewNotificationService(e.sender, validate, service.NotificationConfig{
		From:      "STAMINA PENGJU <no-reply@staminaintl.com>",
		Recipient: e.cfg.MailRecipient,
		Location:  time.UTC,
	}, logger)

	var repo repository.ContactRepository
	if e.repo != nil {
		repo = e.repo
	}
	contacts := service.NewContactService(repo, notifier, validate, service.ContactServiceOptions{
		Persistence:   e.persistence,
		Cache:         e.cache,
		NotifyTimeout: time.Second,
	}, logger)

	images := e.images
	if images == nil {
		images = service.NewImageService(nil, nil, logger)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(logger)})
	middleware.Register(app, middleware.Config{Logger: &logger, ServicePaths: []string{router.NotifyPath}})
	router.Register(app, e.cfg, router.Dependencies{
		ContactHandler: handler.NewContactHandler(contacts, logger),
		NotifyHandler:  handler.NewNotifyHandler(notifier, logger),
		ImageHandler:   handler.NewImageHandler(images, logger),
		ImageDir:       e.imageDir,
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, headers map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

type errorBody struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details string          `json:"details"`
	Config  json.RawMessage `json:"config"`
}
