package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContactRequest defines the expected payload for the contact form endpoint.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company"`
	Email   string `json:"email" validate:"required"`
	Country string `json:"country"`
	Message string `json:"message" validate:"required"`
	Locale  string `json:"-"`
}

// ContactResponse is returned once a submission has been recorded.
type ContactResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ContactID string `json:"contact_id"`
}

// ContactNotification carries a recorded submission to the notification dispatcher.
type ContactNotification struct {
	ContactID string  `json:"contact_id"`
	Name      string  `json:"name" validate:"required"`
	Company   *string `json:"company"`
	Email     string  `json:"email" validate:"required"`
	Country   *string `json:"country"`
	Message   string  `json:"message" validate:"required"`
}

// UnmarshalJSON accepts contact_id as a JSON string or number, since the contacts
// table may use integer or uuid keys.
func (n *ContactNotification) UnmarshalJSON(data []byte) error {
	type notification ContactNotification
	aux := struct {
		*notification
		ContactID json.RawMessage `json:"contact_id"`
	}{notification: (*notification)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ContactID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		n.ContactID = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &n.ContactID)
	default:
		var number json.Number
		if err := json.Unmarshal(raw, &number); err != nil {
			return fmt.Errorf("contact_id must be a string or number: %w", err)
		}
		n.ContactID = number.String()
	}
	return nil
}

// NotificationResponse acknowledges a delivered notification email.
type NotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactCreatedEvent is published after a submission is persisted.
type ContactCreatedEvent struct {
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
	Country   string `json:"country,omitempty"`
	Locale    string `json:"locale,omitempty"`
	CreatedAt string `json:"created_at"`
}
