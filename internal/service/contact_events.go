package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stamina-web-api/internal/dto"
)

// NATSContactEvents publishes contact events on a NATS subject.
type NATSContactEvents struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSContactEvents constructs a publisher for the given subject.
func NewNATSContactEvents(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSContactEvents {
	return &NATSContactEvents{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "contact_events").Logger(),
	}
}

// PublishContactCreated sends the event; it does not wait for subscribers.
func (p *NATSContactEvents) PublishContactCreated(ctx context.Context, event dto.ContactCreatedEvent) error {
	if p.conn == nil || p.subject == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode contact event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish contact event: %w", err)
	}

	p.logger.Debug().Str("contact_id", event.ContactID).Str("subject", p.subject).Msg("contact event published")
	return nil
}
