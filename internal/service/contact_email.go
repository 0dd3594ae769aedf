package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/stamina-web-api/internal/dto"
)

const (
	contactEmailBrand   = "STAMINA PENGJU"
	contactEmailTagline = "Your Strategic Bridge Between Asia and the Americas"
	// es-ES short date and time, the format the sales team reads.
	contactEmailTimeLayout = "2/1/2006, 15:04:05"
)

// RenderedEmail is a notification ready to hand to the provider.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

type contactEmailView struct {
	Brand       string
	Tagline     string
	ContactID   string
	Name        string
	Email       string
	Company     string
	Country     string
	ReceivedAt  string
	Message     string
	MessageHTML template.HTML
}

var contactEmailHTML = template.Must(template.New("contact_email.html").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%); padding: 20px; color: white; text-align: center; }
    .content { padding: 30px; background: #f9f9f9; }
    .field { margin-bottom: 15px; }
    .field strong { color: #1a1a2e; }
    .message { background: white; padding: 15px; border-left: 4px solid #1a1a2e; margin: 20px 0; }
    .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>{{.Brand}}</h1>
      <p>{{.Tagline}}</p>
    </div>
    <div class="content">
      <h2>Nuevo Contacto Recibido / New Contact Received</h2>
      <div class="field"><strong>Nombre / Name:</strong> {{.Name}}</div>
{{- if .Company}}
      <div class="field"><strong>Empresa / Company:</strong> {{.Company}}</div>
{{- end}}
      <div class="field"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></div>
{{- if .Country}}
      <div class="field"><strong>País / Country:</strong> {{.Country}}</div>
{{- end}}
      <div class="field"><strong>Fecha / Date:</strong> {{.ReceivedAt}}</div>
      <div class="message">
        <strong>Mensaje / Message:</strong><br>
        {{.MessageHTML}}
      </div>
    </div>
    <div class="footer">
      <p>Contact ID: {{.ContactID}}</p>
      <p>Este es un mensaje automático del sitio web staminaintl.com / This is an automated message from staminaintl.com</p>
    </div>
  </div>
</body>
</html>
`))

var contactEmailText = texttemplate.Must(texttemplate.New("contact_email.txt").Parse(`{{.Brand}}
{{.Tagline}}

Nuevo Contacto Recibido / New Contact Received

Nombre / Name: {{.Name}}
{{- if .Company}}
Empresa / Company: {{.Company}}
{{- end}}
Email: {{.Email}}
{{- if .Country}}
País / Country: {{.Country}}
{{- end}}
Fecha / Date: {{.ReceivedAt}}

Mensaje / Message:
{{.Message}}

--
Contact ID: {{.ContactID}}
Este es un mensaje automático del sitio web staminaintl.com / This is an automated message from staminaintl.com
`))

type contactEmailRenderer struct {
	location *time.Location
	policy   *bluemonday.Policy
}

func newContactEmailRenderer(location *time.Location) *contactEmailRenderer {
	if location == nil {
		location = time.UTC
	}
	return &contactEmailRenderer{
		location: location,
		policy:   bluemonday.StrictPolicy(),
	}
}

func (r *contactEmailRenderer) Render(notification dto.ContactNotification, receivedAt time.Time) (RenderedEmail, error) {
	view := contactEmailView{
		Brand:      contactEmailBrand,
		Tagline:    contactEmailTagline,
		ContactID:  notification.ContactID,
		Name:       notification.Name,
		Email:      notification.Email,
		Company:    strings.TrimSpace(derefText(notification.Company)),
		Country:    strings.TrimSpace(derefText(notification.Country)),
		ReceivedAt: receivedAt.In(r.location).Format(contactEmailTimeLayout),
		Message:    notification.Message,
	}
	view.MessageHTML = r.messageHTML(notification.Message)

	var htmlBody bytes.Buffer
	if err := contactEmailHTML.Execute(&htmlBody, view); err != nil {
		return RenderedEmail{}, fmt.Errorf("render contact email html: %w", err)
	}

	var textBody bytes.Buffer
	if err := contactEmailText.Execute(&textBody, view); err != nil {
		return RenderedEmail{}, fmt.Errorf("render contact email text: %w", err)
	}

	return RenderedEmail{
		Subject: contactEmailSubject(notification.Name),
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}

// messageHTML strips markup from the visitor's text, then keeps their line breaks.
func (r *contactEmailRenderer) messageHTML(message string) template.HTML {
	normalized := strings.ReplaceAll(message, "\r\n", "\n")
	sanitized := r.policy.Sanitize(normalized)
	return template.HTML(strings.ReplaceAll(sanitized, "\n", "<br>"))
}

func contactEmailSubject(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return fmt.Sprintf("Nuevo contacto de %s: %s", contactEmailBrand, name)
}
