package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	imageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stamina",
		Subsystem: "ai",
		Name:      "image_generation_duration_seconds",
		Help:      "Duration of image generation requests",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"model"})

	imageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stamina",
		Subsystem: "ai",
		Name:      "image_generation_failures_total",
		Help:      "Number of image generation failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI image generator.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  zerolog.Logger
}

// OpenAIImageGenerator implements ImageGenerator against the OpenAI images API.
type OpenAIImageGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIImageGenerator builds a generator using the provided configuration.
func NewOpenAIImageGenerator(cfg OpenAIConfig) (*OpenAIImageGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.CreateImageModelDallE3
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIImageGenerator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/stamina-web-api/pkg/ai/openai"),
		logger: logger.With().Str("component", "openai_images").Logger(),
	}, nil
}

// Generate requests a single base64-encoded image and decodes it.
func (g *OpenAIImageGenerator) Generate(parent context.Context, input ImageRequest) (GeneratedImage, error) {
	size := NormalizeSize(input.Size)
	ctx, span := g.tracer.Start(parent, "openai.generate_image", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("size", size),
	))
	defer span.End()

	start := time.Now()
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         input.Prompt,
		Model:          g.cfg.Model,
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	imageDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return GeneratedImage{}, g.fail(span, fmt.Errorf("openai create image: %w", err))
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return GeneratedImage{}, g.fail(span, fmt.Errorf("invalid response from image generation api"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return GeneratedImage{}, g.fail(span, fmt.Errorf("decode generated image: %w", err))
	}

	g.logger.Info().Int("bytes", len(data)).Str("size", size).Msg("image generated")

	return GeneratedImage{
		Data:          data,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
		Model:         g.cfg.Model,
	}, nil
}

func (g *OpenAIImageGenerator) fail(span trace.Span, err error) error {
	imageFailures.WithLabelValues(g.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// NormalizeSize maps a requested WIDTHxHEIGHT onto the closest supported orientation.
// An empty or unparsable size falls back to landscape, the site's banner format.
func NormalizeSize(size string) string {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(size)), "x", 2)
	if len(parts) != 2 {
		return SizeLandscape
	}

	width, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	height, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return SizeLandscape
	}

	switch {
	case width > height:
		return SizeLandscape
	case height > width:
		return SizePortrait
	default:
		return SizeSquare
	}
}
