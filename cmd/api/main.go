package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/config"
	"github.com/noah-isme/stamina-web-api/internal/database"
	"github.com/noah-isme/stamina-web-api/internal/handler"
	"github.com/noah-isme/stamina-web-api/internal/middleware"
	"github.com/noah-isme/stamina-web-api/internal/repository"
	"github.com/noah-isme/stamina-web-api/internal/router"
	"github.com/noah-isme/stamina-web-api/internal/service"
	"github.com/noah-isme/stamina-web-api/pkg/ai"
	cloud "github.com/noah-isme/stamina-web-api/pkg/cloudinary"
	"github.com/noah-isme/stamina-web-api/pkg/mailer"
	"github.com/noah-isme/stamina-web-api/pkg/storage"
	"github.com/noah-isme/stamina-web-api/pkg/supabase"
)

const generatedImagesPath = "/generated-images"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "stamina-web-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	contactRepo := buildContactRepository(cfg, logger)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, duplicate guard disabled")
		} else {
			defer redisClient.Close()
		}
	}

	var events service.ContactEventPublisher
	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, contact events disabled")
		} else {
			defer natsConn.Drain()
			events = service.NewNATSContactEvents(natsConn, cfg.NATSSubject, logger)
		}
	}

	location, err := time.LoadLocation(cfg.MailTimeZone)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid mail timezone")
	}

	var sender service.EmailSender
	mailClient, err := mailer.New(mailer.Config{APIKey: cfg.MailAPIKey, BaseURL: cfg.MailBaseURL, Timeout: cfg.NotifyTimeout})
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		logger.Warn().Msg("email provider not configured, contact notifications disabled")
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to create email client")
	default:
		sender = mailClient
	}

	notificationService := service.NewNotificationService(sender, validate, service.NotificationConfig{
		From:      cfg.MailFrom,
		Recipient: cfg.MailRecipient,
		Location:  location,
	}, logger)

	contactService := service.NewContactService(contactRepo, notificationService, validate, service.ContactServiceOptions{
		Persistence:   cfg.Persistence(),
		Cache:         redisClient,
		DedupeTTL:     cfg.ContactDedupeTTL,
		Events:        events,
		NotifyTimeout: cfg.NotifyTimeout,
	}, logger)

	imageService, imageDir := buildImageService(cfg, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: handler.ErrorHandler(logger),
	})

	middleware.Register(app, middleware.Config{Logger: &logger, ServicePaths: []string{router.NotifyPath}})
	router.Register(app, cfg, router.Dependencies{
		ContactHandler: handler.NewContactHandler(contactService, logger),
		NotifyHandler:  handler.NewNotifyHandler(notificationService, logger),
		ImageHandler:   handler.NewImageHandler(imageService, logger),
		ImageDir:       imageDir,
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("persistence", cfg.PersistenceDriver).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

// buildContactRepository returns nil when the selected backend has no credentials;
// the contact service then answers 503 instead of failing at startup.
func buildContactRepository(cfg config.Config, logger zerolog.Logger) repository.ContactRepository {
	status := cfg.Persistence()
	if !status.IsConfigured {
		logger.Warn().
			Str("driver", cfg.PersistenceDriver).
			Bool("has_url", status.HasURL).
			Bool("has_key", status.HasKey).
			Msg("persistence backend not configured")
		return nil
	}

	switch cfg.PersistenceDriver {
	case config.PersistenceDriverPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		return repository.NewContactRepository(db)
	default:
		client, err := supabase.New(supabase.Config{URL: cfg.SupabaseURL, Key: cfg.SupabaseKey})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create supabase client")
		}
		return repository.NewSupabaseContactRepository(client)
	}
}

// buildImageService prefers Cloudinary when credentials exist and otherwise stores
// images on disk. The returned directory is non-empty only in the local case.
func buildImageService(cfg config.Config, logger zerolog.Logger) (service.ImageService, string) {
	if cfg.OpenAIAPIKey == "" {
		logger.Info().Msg("image generation not configured")
		return service.NewImageService(nil, nil, logger), ""
	}

	generator, err := ai.NewOpenAIImageGenerator(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.ImageModel,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create image generator")
	}

	cloudCfg := cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	}
	if cloudCfg.Configured() {
		uploader, err := cloud.New(cloudCfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		return service.NewImageService(generator, uploader, logger), ""
	}

	return service.NewImageService(generator, storage.NewLocalStorage(cfg.ImageDir, generatedImagesPath), logger), cfg.ImageDir
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
