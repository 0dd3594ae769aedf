package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatusNew is assigned to every submission when it is first recorded.
const ContactStatusNew = "new"

// ContactSubmission stores inbound enquiries from the website contact form.
type ContactSubmission struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:160;not null" json:"name"`
	Company   *string   `gorm:"size:160" json:"company"`
	Email     string    `gorm:"size:254;not null;index" json:"email"`
	Country   *string   `gorm:"size:96" json:"country"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"size:32;not null;default:'new'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the table name shared with the hosted backend.
func (ContactSubmission) TableName() string {
	return "contacts"
}

// BeforeCreate assigns the identifier and initial status.
func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
	return nil
}
