package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/internal/observability"
	"github.com/noah-isme/stamina-web-api/pkg/ai"
)

var (
	// ErrImagePromptRequired indicates the request carried no prompt.
	ErrImagePromptRequired = errors.New("prompt is required")
	// ErrImageGenerationNotConfigured indicates no image provider credentials were supplied.
	ErrImageGenerationNotConfigured = errors.New("image generation not configured")
	// ErrImageInvalidPayload indicates the provider returned bytes that are not an image.
	ErrImageInvalidPayload = errors.New("invalid response from image generation api")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ImageService renders marketing imagery on demand.
type ImageService interface {
	Generate(ctx context.Context, req dto.ImageGenerateRequest) (dto.ImageGenerateResponse, error)
}

type imageService struct {
	generator ai.ImageGenerator
	storage   FileStorage
	prefix    string
	now       func() time.Time
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewImageService constructs the image generation service. generator may be nil when
// no provider is configured.
func NewImageService(generator ai.ImageGenerator, storage FileStorage, logger zerolog.Logger) ImageService {
	return &imageService{
		generator: generator,
		storage:   storage,
		prefix:    "pacific-port",
		now:       time.Now,
		logger:    logger.With().Str("component", "image_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/stamina-web-api/internal/service/image"),
	}
}

func (s *imageService) Generate(ctx context.Context, req dto.ImageGenerateRequest) (dto.ImageGenerateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "image.generate")
	defer span.End()

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return dto.ImageGenerateResponse{}, ErrImagePromptRequired
	}
	if s.generator == nil || s.storage == nil {
		observability.ImageGenerations().WithLabelValues("unconfigured").Inc()
		return dto.ImageGenerateResponse{}, ErrImageGenerationNotConfigured
	}

	image, err := s.generator.Generate(ctx, ai.ImageRequest{Prompt: prompt, Size: req.Size})
	if err != nil {
		return dto.ImageGenerateResponse{}, s.fail(span, err)
	}

	mime := mimetype.Detect(image.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return dto.ImageGenerateResponse{}, s.fail(span, fmt.Errorf("%w: got %s", ErrImageInvalidPayload, mime.String()))
	}
	span.SetAttributes(attribute.String("image.mime", mime.String()), attribute.Int("image.bytes", len(image.Data)))

	filename := fmt.Sprintf("%s-%d%s", s.prefix, s.now().UnixMilli(), mime.Extension())
	url, err := s.storage.Upload(ctx, filename, bytes.NewReader(image.Data))
	if err != nil {
		return dto.ImageGenerateResponse{}, s.fail(span, fmt.Errorf("store generated image: %w", err))
	}

	observability.ImageGenerations().WithLabelValues("stored").Inc()
	s.logger.Info().Str("filename", filename).Str("url", url).Msg("generated image stored")

	return dto.ImageGenerateResponse{
		Success:  true,
		ImageURL: url,
		Filename: filename,
		Prompt:   prompt,
	}, nil
}

func (s *imageService) fail(span trace.Span, err error) error {
	observability.ImageGenerations().WithLabelValues("failed").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error().Err(err).Msg("image generation failed")
	return err
}
