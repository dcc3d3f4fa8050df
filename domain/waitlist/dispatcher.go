package waitlist

import (
	"context"
	"time"

	"github.com/noctura/landing/internal/models"
)

//go:generate mockgen -source=dispatcher.go -destination=mock_dispatcher.go -package=waitlist

// Submission is the outbound payload. Only Email is sent to the destination.
type Submission struct {
	Email         string
	CorrelationID string
	SubmittedAt   time.Time
}

// Receipt describes what the destination did with a submission.
type Receipt struct {
	Acknowledged bool
	StatusCode   int
	Destination  string
}

type Dispatcher interface {
	// Dispatch delivers one submission. A nil error means the submission was accepted or handed off.
	Dispatch(ctx context.Context, submission Submission) (Receipt, error)
	// Destination names where submissions go, for logs and audit rows.
	Destination() string
}

// OutcomeFor classifies a dispatch into one of the audit outcomes.
func OutcomeFor(receipt Receipt, err error) string {
	switch {
	case err == nil && receipt.Acknowledged:
		return models.SubmissionOutcomeDelivered
	case err == nil:
		return models.SubmissionOutcomeQueued
	case IsRejection(err):
		return models.SubmissionOutcomeRejected
	default:
		return models.SubmissionOutcomeFailed
	}
}
