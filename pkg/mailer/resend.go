package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultBaseURL = "https://api.resend.com"
	defaultTimeout = 10 * time.Second
)

// ErrNotConfigured indicates the provider API key was not supplied.
var ErrNotConfigured = errors.New("email provider not configured")

// Message is a single outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Config contains the provider credentials.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client sends email through a Resend-compatible HTTP API.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
}

// ProviderError is returned when the provider rejects a send.
type ProviderError struct {
	Status  int
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("email provider responded with status %d", e.Status)
	}
	return fmt.Sprintf("email provider rejected message (%d): %s", e.Status, e.Message)
}

// New constructs an email client. A missing API key yields ErrNotConfigured.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
	}, nil
}

// Send submits the message and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(msg.To) == 0 {
		return "", fmt.Errorf("email recipient is required")
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	status, body, errs := fiber.Post(c.baseURL+"/emails").
		Set(fiber.HeaderAuthorization, "Bearer "+c.apiKey).
		JSON(msg).
		Timeout(timeout).
		Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("send email: %w", errors.Join(errs...))
	}

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		providerErr := &ProviderError{Status: status}
		if err := json.Unmarshal(body, providerErr); err != nil {
			providerErr.Message = strings.TrimSpace(string(body))
		}
		return "", providerErr
	}

	var reply struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("decode email provider response: %w", err)
	}
	return reply.ID, nil
}
