package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/stamina-web-api/internal/models"
	"github.com/noah-isme/stamina-web-api/pkg/supabase"
)

const contactsTable = "contacts"

// RowInserter is the subset of the Supabase client used by the repository.
type RowInserter interface {
	Insert(ctx context.Context, table string, row interface{}, out interface{}) error
}

type supabaseContactRepository struct {
	client RowInserter
}

type supabaseContactRow struct {
	Name    string  `json:"name"`
	Company *string `json:"company"`
	Email   string  `json:"email"`
	Country *string `json:"country"`
	Message string  `json:"message"`
	Status  string  `json:"status"`
}

type supabaseContactRecord struct {
	ID        json.RawMessage `json:"id"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSupabaseContactRepository stores submissions in the hosted contacts table.
func NewSupabaseContactRepository(client RowInserter) ContactRepository {
	return &supabaseContactRepository{client: client}
}

var _ RowInserter = (*supabase.Client)(nil)

func (r *supabaseContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.Status == "" {
		submission.Status = models.ContactStatusNew
	}

	row := supabaseContactRow{
		Name:    submission.Name,
		Company: submission.Company,
		Email:   submission.Email,
		Country: submission.Country,
		Message: submission.Message,
		Status:  submission.Status,
	}

	var record supabaseContactRecord
	if err := r.client.Insert(ctx, contactsTable, row, &record); err != nil {
		return err
	}

	id := strings.Trim(strings.TrimSpace(string(record.ID)), `"`)
	if id == "" || id == "null" {
		return fmt.Errorf("supabase insert returned no id")
	}

	submission.ID = id
	if record.Status != "" {
		submission.Status = record.Status
	}
	if !record.CreatedAt.IsZero() {
		submission.CreatedAt = record.CreatedAt
	}
	return nil
}
