package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission outcomes
const (
	SubmissionOutcomeDelivered = "delivered"
	SubmissionOutcomeQueued    = "queued"
	SubmissionOutcomeRejected  = "rejected"
	SubmissionOutcomeFailed    = "failed"
)

// WaitlistSubmission is an audit row for one relay attempt. The email is stored as submitted.
type WaitlistSubmission struct {
	ID            string    `gorm:"type:text;primaryKey" json:"id"`
	Email         string    `gorm:"not null;index" json:"email"`
	Outcome       string    `gorm:"not null;index" json:"outcome"`
	Destination   string    `gorm:"not null" json:"destination"`
	StatusCode    int       `gorm:"not null;default:0" json:"status_code"`
	CorrelationID string    `gorm:"index" json:"correlation_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (s *WaitlistSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
