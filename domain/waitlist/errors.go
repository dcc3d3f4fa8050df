package waitlist

import (
	"errors"
	"fmt"

	apperrors "github.com/noctura/landing/pkg/errors"
	"github.com/noctura/landing/pkg/retry"
)

var (
	ErrEmailRequired        = apperrors.NewInvalidRequestError(MessageEmailRequired, nil)
	ErrSubmissionInProgress = apperrors.NewConflictError("A waitlist submission is already in progress", nil)
	ErrDispatcherClosed     = errors.New("waitlist: dispatcher is closed")
)

// UpstreamStatusError is a non-2xx answer from the relay destination.
type UpstreamStatusError struct {
	Destination string
	StatusCode  int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("waitlist: %s responded with status %d", e.Destination, e.StatusCode)
}

// Retryable covers timeouts, throttling and server faults; other 4xx answers are final rejections.
func (e *UpstreamStatusError) Retryable() bool {
	return e.StatusCode == 408 || e.StatusCode == 429 || e.StatusCode >= 500
}

func (e *UpstreamStatusError) Rejected() bool {
	return !e.Retryable()
}

var _ retry.Retryable = (*UpstreamStatusError)(nil)

type rejection interface {
	Rejected() bool
}

// IsRejection reports whether the destination refused the submission outright.
func IsRejection(err error) bool {
	var r rejection
	if errors.As(err, &r) {
		return r.Rejected()
	}
	return false
}
