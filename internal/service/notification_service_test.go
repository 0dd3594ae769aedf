package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/pkg/mailer"
)

type senderStub struct {
	messages []mailer.Message
	err      error
}

func (s *senderStub) Send(ctx context.Context, msg mailer.Message) (string, error) {
	s.messages = append(s.messages, msg)
	if s.err != nil {
		return "", s.err
	}
	return "msg-1", nil
}

func newTestNotifier(t *testing.T, sender EmailSender) *notificationService {
	t.Helper()
	location, err := time.LoadLocation("America/Panama")
	require.NoError(t, err)

	svc := NewNotificationService(sender, testValidator(), NotificationConfig{
		From:      "STAMINA PENGJU <no-reply@staminaintl.com>",
		Recipient: "gerente@staminaintl.com",
		Location:  location,
	}, testLogger()).(*notificationService)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC) }
	return svc
}

func TestNotifyOmitsAbsentOptionalFields(t *testing.T) {
	sender := &senderStub{}
	svc := newTestNotifier(t, sender)

	err := svc.Notify(context.Background(), dto.ContactNotification{
		ContactID: "c0ffee",
		Name:      "Ana Ruiz",
		Email:     "ana@example.com",
		Message:   "Interesado en productos industriales",
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	require.Equal(t, []string{"gerente@staminaintl.com"}, msg.To)
	require.Equal(t, "ana@example.com", msg.ReplyTo)
	require.Equal(t, "Nuevo contacto de STAMINA PENGJU: Ana Ruiz", msg.Subject)

	for _, body := range []string{msg.HTML, msg.Text} {
		require.Contains(t, body, "Ana Ruiz")
		require.Contains(t, body, "Interesado en productos industriales")
		require.Contains(t, body, "Contact ID: c0ffee")
		require.Contains(t, body, "19/10/2026, 10:04:05")
		require.NotContains(t, body, "Empresa")
		require.NotContains(t, body, "País")
	}
	require.Contains(t, msg.HTML, `<a href="mailto:ana@example.com">ana@example.com</a>`)
	require.NotContains(t, msg.Text, "<")
}

func TestNotifyRendersOptionalFields(t *testing.T) {
	sender := &senderStub{}
	svc := newTestNotifier(t, sender)

	company := "Acme Trading"
	country := "Panamá"
	err := svc.Notify(context.Background(), dto.ContactNotification{
		ContactID: "c0ffee",
		Name:      "Ana Ruiz",
		Company:   &company,
		Email:     "ana@example.com",
		Country:   &country,
		Message:   "Hola",
	})
	require.NoError(t, err)

	msg := sender.messages[0]
	require.Contains(t, msg.HTML, "<strong>Empresa / Company:</strong> Acme Trading")
	require.Contains(t, msg.HTML, "<strong>País / Country:</strong> Panamá")
	require.Contains(t, msg.Text, "Empresa / Company: Acme Trading")
	require.Contains(t, msg.Text, "País / Country: Panamá")
}

func TestNotifyEscapesAndBreaksMessage(t *testing.T) {
	sender := &senderStub{}
	svc := newTestNotifier(t, sender)

	err := svc.Notify(context.Background(), dto.ContactNotification{
		ContactID: "c0ffee",
		Name:      "<script>alert(1)</script>",
		Email:     "ana@example.com",
		Message:   "Línea uno\r\n<b>Línea</b> dos\nLínea tres",
	})
	require.NoError(t, err)

	msg := sender.messages[0]
	require.NotContains(t, msg.HTML, "<script>")
	require.Contains(t, msg.HTML, "&lt;script&gt;")
	require.Contains(t, msg.HTML, "Línea uno<br>Línea dos<br>Línea tres")
	require.Contains(t, msg.Text, "Línea uno\r\n<b>Línea</b> dos\nLínea tres")
	require.False(t, strings.ContainsAny(msg.Subject, "\r\n"))
}

func TestNotifyWithoutSender(t *testing.T) {
	svc := NewNotificationService(nil, testValidator(), NotificationConfig{Recipient: "gerente@staminaintl.com"}, testLogger())

	err := svc.Notify(context.Background(), dto.ContactNotification{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	require.ErrorIs(t, err, ErrEmailNotConfigured)
}

func TestNotifyProviderFailure(t *testing.T) {
	boom := errors.New("provider rejected")
	svc := newTestNotifier(t, &senderStub{err: boom})

	err := svc.Notify(context.Background(), dto.ContactNotification{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	require.ErrorIs(t, err, boom)
}

func TestNotifyMissingFields(t *testing.T) {
	sender := &senderStub{}
	svc := newTestNotifier(t, sender)

	err := svc.Notify(context.Background(), dto.ContactNotification{Name: "Ana", Email: " ", Message: "hi"})
	require.ErrorIs(t, err, ErrContactMissingFields)
	require.Empty(t, sender.messages)
}

func TestNotificationRecipient(t *testing.T) {
	svc := newTestNotifier(t, &senderStub{})
	require.Equal(t, "gerente@staminaintl.com", svc.Recipient())
}
