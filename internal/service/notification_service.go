package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/internal/observability"
	"github.com/noah-isme/stamina-web-api/pkg/mailer"
)

// ErrEmailNotConfigured indicates no email provider credentials were supplied at startup.
var ErrEmailNotConfigured = errors.New("email provider not configured")

// EmailSender hands a rendered message to an email-delivery provider.
type EmailSender interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// NotificationService renders and sends the staff alert for a contact submission.
type NotificationService interface {
	ContactNotifier
	Recipient() string
}

// NotificationConfig describes where alerts go and how timestamps are shown.
type NotificationConfig struct {
	From      string
	Recipient string
	Location  *time.Location
}

type notificationService struct {
	sender    EmailSender
	validator *validator.Validate
	renderer  *contactEmailRenderer
	from      string
	recipient string
	now       func() time.Time
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewNotificationService constructs the dispatcher. sender may be nil, in which case
// every Notify call fails with ErrEmailNotConfigured.
func NewNotificationService(sender EmailSender, validate *validator.Validate, cfg NotificationConfig, logger zerolog.Logger) NotificationService {
	return &notificationService{
		sender:    sender,
		validator: validate,
		renderer:  newContactEmailRenderer(cfg.Location),
		from:      cfg.From,
		recipient: strings.TrimSpace(cfg.Recipient),
		now:       time.Now,
		logger:    logger.With().Str("component", "notification_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/stamina-web-api/internal/service/notification"),
	}
}

func (s *notificationService) Recipient() string {
	return s.recipient
}

func (s *notificationService) Notify(ctx context.Context, notification dto.ContactNotification) error {
	ctx, span := s.tracer.Start(ctx, "contact.notify", trace.WithAttributes(
		attribute.String("contact.id", notification.ContactID),
	))
	defer span.End()

	notification.Name = strings.TrimSpace(notification.Name)
	notification.Email = strings.TrimSpace(notification.Email)
	notification.Message = strings.TrimSpace(notification.Message)

	if err := s.validator.Struct(notification); err != nil {
		span.SetStatus(codes.Error, "missing required fields")
		return ErrContactMissingFields
	}

	if s.sender == nil || s.recipient == "" {
		span.SetStatus(codes.Error, "email not configured")
		observability.NotificationDeliveries().WithLabelValues("unconfigured").Inc()
		return ErrEmailNotConfigured
	}

	email, err := s.renderer.Render(notification, s.now())
	if err != nil {
		span.RecordError(err)
		observability.NotificationDeliveries().WithLabelValues("failed").Inc()
		return err
	}

	messageID, err := s.sender.Send(ctx, mailer.Message{
		From:    s.from,
		To:      []string{s.recipient},
		ReplyTo: notification.Email,
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		observability.NotificationDeliveries().WithLabelValues("failed").Inc()
		return err
	}

	observability.NotificationDeliveries().WithLabelValues("sent").Inc()
	s.logger.Info().
		Str("contact_id", notification.ContactID).
		Str("message_id", messageID).
		Str("sender", maskEmailAddress(notification.Email)).
		Msg("contact notification email sent")
	span.SetStatus(codes.Ok, "sent")
	return nil
}
