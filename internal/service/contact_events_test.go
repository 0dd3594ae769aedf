package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stamina-web-api/internal/dto"
)

const testContactSubject = "stamina.contacts.created"

func startNATSServer(t *testing.T) *nats.Conn {
	t.Helper()

	srv, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		srv.Shutdown()
		t.Fatal("nats server did not become ready")
	}
	t.Cleanup(srv.Shutdown)

	conn, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func TestNATSContactEventsWithoutConnection(t *testing.T) {
	events := NewNATSContactEvents(nil, testContactSubject, testLogger())
	require.NoError(t, events.PublishContactCreated(context.Background(), dto.ContactCreatedEvent{ContactID: "1"}))
}

func TestNATSContactEventsPublishesPayload(t *testing.T) {
	conn := startNATSServer(t)

	sub, err := conn.SubscribeSync(testContactSubject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	events := NewNATSContactEvents(conn, testContactSubject, testLogger())
	event := dto.ContactCreatedEvent{
		ContactID: "contact-123",
		Email:     "a***a@example.com",
		Country:   "ES",
		Locale:    "es",
		CreatedAt: "2024-05-01T10:00:00Z",
	}
	require.NoError(t, events.PublishContactCreated(context.Background(), event))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	require.Equal(t, testContactSubject, msg.Subject)

	var got dto.ContactCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	require.Equal(t, event, got)
}

func TestNATSContactEventsOmitsEmptyOptionalFields(t *testing.T) {
	conn := startNATSServer(t)

	sub, err := conn.SubscribeSync(testContactSubject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	events := NewNATSContactEvents(conn, testContactSubject, testLogger())
	require.NoError(t, events.PublishContactCreated(context.Background(), dto.ContactCreatedEvent{
		ContactID: "contact-456",
		Email:     "b***@example.com",
		CreatedAt: "2024-05-01T10:00:00Z",
	}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Data, &raw))
	require.Equal(t, "contact-456", raw["contact_id"])
	require.NotContains(t, raw, "country")
	require.NotContains(t, raw, "locale")
}

func TestNATSContactEventsCanceledContext(t *testing.T) {
	conn := startNATSServer(t)

	sub, err := conn.SubscribeSync(testContactSubject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := NewNATSContactEvents(conn, testContactSubject, testLogger())
	err = events.PublishContactCreated(ctx, dto.ContactCreatedEvent{ContactID: "contact-789"})
	require.ErrorIs(t, err, context.Canceled)

	_, err = sub.NextMsg(200 * time.Millisecond)
	require.ErrorIs(t, err, nats.ErrTimeout)
}
