package waitlist

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noctura/landing/internal/log"
	apperrors "github.com/noctura/landing/pkg/errors"
)

// Submitter holds the waitlist form state for one visitor: the typed email and
// whether a submission is in flight. It moves Idle -> Submitting -> Idle and never
// leaves Submitting set once OnSubmit returns.
type Submitter struct {
	dispatcher Dispatcher
	logger     *log.Logger
	now        func() time.Time
	observer   func(submitting bool)

	mu          sync.Mutex
	email       string
	lastReceipt Receipt

	submitting atomic.Bool
}

type SubmitterOption func(*Submitter)

// WithStateObserver is called on every Submitting transition, before the flag changes back.
func WithStateObserver(fn func(submitting bool)) SubmitterOption {
	return func(s *Submitter) {
		s.observer = fn
	}
}

func WithSubmitterLogger(logger *log.Logger) SubmitterOption {
	return func(s *Submitter) {
		s.logger = logger
	}
}

func withClock(now func() time.Time) SubmitterOption {
	return func(s *Submitter) {
		s.now = now
	}
}

func NewSubmitter(dispatcher Dispatcher, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		dispatcher: dispatcher,
		logger:     log.NewDiscardLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnEmailChange replaces the held email verbatim. No validation happens here.
func (s *Submitter) OnEmailChange(value string) {
	s.mu.Lock()
	s.email = value
	s.mu.Unlock()
}

func (s *Submitter) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

func (s *Submitter) IsSubmitting() bool {
	return s.submitting.Load()
}

// LastReceipt is the receipt of the most recent successful dispatch.
func (s *Submitter) LastReceipt() Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReceipt
}

// OnSubmit validates the held email, dispatches it and reports the result as a notification.
// Only the empty string is rejected; no format check is applied. A second call while one is
// in flight returns ErrSubmissionInProgress without dispatching.
func (s *Submitter) OnSubmit(ctx context.Context) (Notification, error) {
	email := s.Email()
	if email == "" {
		return ErrorNotification(MessageEmailRequired), ErrEmailRequired
	}

	if !s.submitting.CompareAndSwap(false, true) {
		return Notification{}, ErrSubmissionInProgress
	}
	s.notify(true)
	defer func() {
		s.notify(false)
		s.submitting.Store(false)
	}()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	receipt, err := s.dispatch(ctx, Submission{
		Email:         email,
		CorrelationID: log.CorrelationIDFromContext(ctx),
		SubmittedAt:   s.now().UTC(),
	})
	if err != nil {
		logger.Error("Waitlist submission failed", "destination", s.dispatcher.Destination(), "error", err)
		return ErrorNotification(MessageFailed), err
	}

	s.mu.Lock()
	s.lastReceipt = receipt
	// Only clear what was submitted; a concurrent edit wins.
	if s.email == email {
		s.email = ""
	}
	s.mu.Unlock()

	logger.Info("Waitlist submission dispatched",
		"destination", receipt.Destination,
		"acknowledged", receipt.Acknowledged,
		"status_code", receipt.StatusCode,
	)
	return SuccessNotification(), nil
}

func (s *Submitter) dispatch(ctx context.Context, submission Submission) (receipt Receipt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewBadGatewayError(MessageFailed, fmt.Errorf("waitlist: dispatcher panicked: %v", r))
		}
	}()
	return s.dispatcher.Dispatch(ctx, submission)
}

func (s *Submitter) notify(submitting bool) {
	if s.observer != nil {
		s.observer(submitting)
	}
}
