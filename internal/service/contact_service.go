package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/stamina-web-api/internal/config"
	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/internal/i18n"
	"github.com/noah-isme/stamina-web-api/internal/models"
	"github.com/noah-isme/stamina-web-api/internal/observability"
	"github.com/noah-isme/stamina-web-api/internal/repository"
)

const defaultNotifyTimeout = 10 * time.Second

var (
	// ErrContactMissingFields indicates name, email or message was blank.
	ErrContactMissingFields = errors.New("missing required fields")
	// ErrContactInvalidEmail indicates the email is not shaped like local@domain.tld.
	ErrContactInvalidEmail = errors.New("invalid email address")
	// ErrContactDuplicate indicates the same submission was recorded moments ago.
	ErrContactDuplicate = errors.New("duplicate contact submission")
)

// ConfigurationError is returned when the persistence backend has no connection parameters.
type ConfigurationError struct {
	Status config.PersistenceStatus
}

func (e *ConfigurationError) Error() string {
	return "persistence backend not configured"
}

// PersistenceError wraps a failed insert into the contacts table.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save contact submission: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Detail returns the backend's own description of the failure.
func (e *PersistenceError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ContactNotifier delivers the internal alert for a recorded submission.
// Implementations are best-effort: callers log a returned error and carry on.
type ContactNotifier interface {
	Notify(ctx context.Context, notification dto.ContactNotification) error
}

// ContactEventPublisher announces recorded submissions to other systems.
type ContactEventPublisher interface {
	PublishContactCreated(ctx context.Context, event dto.ContactCreatedEvent) error
}

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error)
}

// ContactServiceOptions carries the optional collaborators of the contact workflow.
type ContactServiceOptions struct {
	Persistence   config.PersistenceStatus
	Cache         *redis.Client
	DedupeTTL     time.Duration
	Events        ContactEventPublisher
	NotifyTimeout time.Duration
}

type contactService struct {
	repo          repository.ContactRepository
	notifier      ContactNotifier
	events        ContactEventPublisher
	cache         *redis.Client
	validator     *validator.Validate
	persistence   config.PersistenceStatus
	dedupeTTL     time.Duration
	notifyTimeout time.Duration
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewContactService constructs a contact submission service. repo may be nil when
// the persistence backend is not configured; Submit then reports a ConfigurationError.
func NewContactService(repo repository.ContactRepository, notifier ContactNotifier, validate *validator.Validate, opts ContactServiceOptions, logger zerolog.Logger) ContactService {
	if opts.DedupeTTL <= 0 {
		opts.DedupeTTL = 5 * time.Minute
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	if err := RegisterContactValidations(validate); err != nil {
		logger.Error().Err(err).Msg("failed to register contact validations")
	}

	return &contactService{
		repo:          repo,
		notifier:      notifier,
		events:        opts.Events,
		cache:         opts.Cache,
		validator:     validate,
		persistence:   opts.Persistence,
		dedupeTTL:     opts.DedupeTTL,
		notifyTimeout: opts.NotifyTimeout,
		logger:        logger.With().Str("component", "contact_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/stamina-web-api/internal/service/contact"),
	}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	locale := i18n.Normalize(req.Locale)

	if err := s.validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			span.RecordError(err)
			return dto.ContactResponse{}, err
		}
		span.SetStatus(codes.Error, "missing required fields")
		observability.ContactSubmissions().WithLabelValues("invalid").Inc()
		return dto.ContactResponse{}, ErrContactMissingFields
	}

	if !s.persistence.IsConfigured || s.repo == nil {
		span.SetStatus(codes.Error, "persistence not configured")
		observability.ContactSubmissions().WithLabelValues("unconfigured").Inc()
		s.logger.Warn().Bool("has_url", s.persistence.HasURL).Bool("has_key", s.persistence.HasKey).Msg("contact submission rejected: persistence not configured")
		return dto.ContactResponse{}, &ConfigurationError{Status: s.persistence}
	}

	if err := s.validator.Var(req.Email, contactEmailTag); err != nil {
		span.SetStatus(codes.Error, "invalid email")
		observability.ContactSubmissions().WithLabelValues("invalid").Inc()
		return dto.ContactResponse{}, ErrContactInvalidEmail
	}

	checksum := computeChecksum(req.Name, req.Email, req.Message)
	span.SetAttributes(attribute.String("contact.checksum", checksum))

	dedupeKey := ""
	if s.cache != nil {
		key := fmt.Sprintf("contact:dedupe:%s", checksum)
		ok, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		switch {
		case err != nil:
			span.RecordError(err)
			s.logger.Warn().Err(err).Msg("contact dedupe check unavailable")
		case !ok:
			span.SetStatus(codes.Error, "duplicate submission")
			observability.ContactSubmissions().WithLabelValues("duplicate").Inc()
			return dto.ContactResponse{}, ErrContactDuplicate
		default:
			dedupeKey = key
		}
	}

	submission := models.ContactSubmission{
		Name:    req.Name,
		Company: optionalText(req.Company),
		Email:   req.Email,
		Country: optionalText(req.Country),
		Message: req.Message,
		Status:  models.ContactStatusNew,
	}

	if err := s.repo.Create(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.ContactSubmissions().WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("email", maskEmailAddress(submission.Email)).Msg("failed to save contact submission")
		s.releaseDedupe(ctx, dedupeKey)
		return dto.ContactResponse{}, &PersistenceError{Err: err}
	}

	span.SetAttributes(attribute.String("contact.id", submission.ID))
	observability.ContactSubmissions().WithLabelValues("accepted").Inc()
	s.logger.Info().
		Str("contact_id", submission.ID).
		Str("email", maskEmailAddress(submission.Email)).
		Bool("has_company", submission.Company != nil).
		Bool("has_country", submission.Country != nil).
		Msg("contact submission saved")

	s.notify(ctx, submission)
	s.publish(ctx, submission, locale)

	span.SetStatus(codes.Ok, "recorded")
	return dto.ContactResponse{
		Success:   true,
		Message:   i18n.T(locale, i18n.ContactSuccess),
		ContactID: submission.ID,
	}, nil
}

// releaseDedupe frees the guard after a failed insert so the visitor can resubmit.
func (s *contactService) releaseDedupe(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.cache.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release contact dedupe key")
	}
}

// notify is a best-effort side effect: its outcome is logged, never returned.
func (s *contactService) notify(ctx context.Context, submission models.ContactSubmission) {
	if s.notifier == nil {
		s.logger.Warn().Str("contact_id", submission.ID).Msg("no notifier wired, skipping contact notification")
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	err := s.notifier.Notify(notifyCtx, dto.ContactNotification{
		ContactID: submission.ID,
		Name:      submission.Name,
		Company:   submission.Company,
		Email:     submission.Email,
		Country:   submission.Country,
		Message:   submission.Message,
	})
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		s.logger.Warn().Err(err).Str("contact_id", submission.ID).Msg("contact notification failed")
		return
	}

	s.logger.Info().Str("contact_id", submission.ID).Msg("contact notification dispatched")
}

func (s *contactService) publish(ctx context.Context, submission models.ContactSubmission, locale string) {
	if s.events == nil {
		return
	}

	createdAt := submission.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	event := dto.ContactCreatedEvent{
		ContactID: submission.ID,
		Email:     submission.Email,
		Country:   derefText(submission.Country),
		Locale:    locale,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishContactCreated(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("contact_id", submission.ID).Msg("failed to publish contact event")
	}
}
