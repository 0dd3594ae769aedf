package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/stamina-web-api/internal/models"
)

// ContactRepository persists contact form submissions. Submissions are write-once:
// this service never reads or updates them after the insert.
type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
}

type gormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs a repository backed by GORM, used when the
// contacts table lives in a Postgres database this service connects to directly.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepository{db: db}
}

func (r *gormContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.Status == "" {
		submission.Status = models.ContactStatusNew
	}

	result := r.db.WithContext(ctx).Create(submission)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("insert into %s affected %d rows", contactsTable, result.RowsAffected)
	}
	return nil
}
