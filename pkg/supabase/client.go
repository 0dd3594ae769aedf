package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// Config contains the project URL and API key of a Supabase project.
type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// Client talks to the PostgREST endpoint of a Supabase project.
type Client struct {
	baseURL string
	key     string
	timeout time.Duration
}

// Error is the error body PostgREST returns for rejected requests.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase request failed with status %d", e.Status)
	}
	return e.Message
}

// New constructs a Supabase REST client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase url and key must be provided")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.Key,
		timeout: cfg.Timeout,
	}, nil
}

// Insert writes row into table and decodes the stored representation into out.
func (c *Client) Insert(ctx context.Context, table string, row interface{}, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	agent := fiber.Post(endpoint).
		Set("apikey", c.key).
		Set(fiber.HeaderAuthorization, "Bearer "+c.key).
		Set("Prefer", "return=representation").
		Set(fiber.HeaderAccept, "application/vnd.pgrst.object+json").
		JSON(row).
		Timeout(c.requestTimeout(ctx))

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("supabase insert into %s: %w", table, errors.Join(errs...))
	}

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		apiErr := &Error{Status: status}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
