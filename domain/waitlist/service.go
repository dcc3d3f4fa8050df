package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/internal/models"
	"github.com/noctura/landing/pkg/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
)

//go:generate mockgen -source=service.go -destination=mock_service.go -package=waitlist

type WaitlistService interface {
	// Join runs one submission for email and reports what the visitor should see.
	// The returned error is an AppError; JoinResult is always populated.
	Join(ctx context.Context, email string) (*JoinResult, error)
	// Stats returns recorded attempts per outcome. Empty when no database is configured.
	Stats(ctx context.Context) (map[string]int64, error)
	// RelayState reports the upstream circuit state.
	RelayState() circuitbreaker.CircuitState
	// Close drains background dispatches.
	Close(ctx context.Context) error
}

type ServiceConfig struct {
	Logger            *log.Logger
	Dispatcher        Dispatcher
	Repository        SubmissionRepository
	Registerer        prometheus.Registerer
	FireAndForget     bool
	BackgroundTimeout time.Duration
}

type breakerReporter interface {
	BreakerState() circuitbreaker.CircuitState
}

type waitlistService struct {
	logger     *log.Logger
	relay      Dispatcher
	dispatcher Dispatcher
	background *FireAndForget
	repository SubmissionRepository
	metrics    *serviceMetrics
}

func NewWaitlistService(cfg ServiceConfig) WaitlistService {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewDiscardLogger()
	}
	repository := cfg.Repository
	if repository == nil {
		repository = noopSubmissionRepository{}
	}
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &waitlistService{
		logger:     logger.WithComponent("waitlist"),
		relay:      cfg.Dispatcher,
		dispatcher: cfg.Dispatcher,
		repository: repository,
		metrics:    newServiceMetrics(reg),
	}

	if cfg.FireAndForget {
		s.background = NewFireAndForget(cfg.Dispatcher, cfg.BackgroundTimeout, s.logger, s.onBackgroundResult)
		s.dispatcher = s.background
	}

	return s
}

func (s *waitlistService) Join(ctx context.Context, email string) (*JoinResult, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	submitter := NewSubmitter(s.dispatcher, WithSubmitterLogger(logger))
	submitter.OnEmailChange(email)

	start := time.Now()
	notification, err := submitter.OnSubmit(ctx)

	result := &JoinResult{
		Notification: notification,
		Email:        submitter.Email(),
	}

	if errors.Is(err, ErrEmailRequired) {
		result.Outcome = OutcomeInvalid
		s.metrics.submissions.WithLabelValues(OutcomeInvalid).Inc()
		logger.Info("Waitlist submission rejected: empty email")
		return result, err
	}

	receipt := submitter.LastReceipt()
	if err != nil {
		receipt = Receipt{Destination: s.dispatcher.Destination()}
	}
	result.Outcome = OutcomeFor(receipt, err)

	s.metrics.submissions.WithLabelValues(result.Outcome).Inc()
	s.metrics.dispatchDuration.Observe(time.Since(start).Seconds())

	// Background dispatches are recorded once their real outcome is known.
	if result.Outcome != models.SubmissionOutcomeQueued {
		s.record(ctx, email, result.Outcome, receipt, err)
	}

	return result, err
}

func (s *waitlistService) onBackgroundResult(ctx context.Context, submission Submission, receipt Receipt, err error) {
	outcome := OutcomeFor(receipt, err)
	s.metrics.background.WithLabelValues(outcome).Inc()
	s.record(ctx, submission.Email, outcome, receipt, err)
}

func (s *waitlistService) record(ctx context.Context, email, outcome string, receipt Receipt, dispatchErr error) {
	statusCode := receipt.StatusCode
	var statusErr *UpstreamStatusError
	if errors.As(dispatchErr, &statusErr) {
		statusCode = statusErr.StatusCode
	}

	destination := receipt.Destination
	if destination == "" {
		destination = s.relay.Destination()
	}

	row := &models.WaitlistSubmission{
		Email:         email,
		Outcome:       outcome,
		Destination:   destination,
		StatusCode:    statusCode,
		CorrelationID: log.CorrelationIDFromContext(ctx),
		CreatedAt:     time.Now().UTC(),
	}

	// Audit failures never change what the visitor sees.
	if err := s.repository.Record(ctx, row); err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to record waitlist submission", "outcome", outcome, "error", err)
	}
}

func (s *waitlistService) Stats(ctx context.Context) (map[string]int64, error) {
	return s.repository.CountByOutcome(ctx)
}

func (s *waitlistService) RelayState() circuitbreaker.CircuitState {
	if reporter, ok := s.relay.(breakerReporter); ok {
		return reporter.BreakerState()
	}
	return circuitbreaker.Closed
}

func (s *waitlistService) Close(ctx context.Context) error {
	if s.background == nil {
		return nil
	}
	return s.background.Close(ctx)
}

type serviceMetrics struct {
	submissions      *prometheus.CounterVec
	background       *prometheus.CounterVec
	dispatchDuration prometheus.Histogram
}

func newServiceMetrics(reg prometheus.Registerer) *serviceMetrics {
	m := &serviceMetrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_submissions_total",
				Help: "Waitlist submissions by outcome.",
			},
			[]string{"outcome"},
		),
		background: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_background_dispatches_total",
				Help: "Completed fire-and-forget dispatches by outcome.",
			},
			[]string{"outcome"},
		),
		dispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waitlist_dispatch_duration_seconds",
				Help:    "Time spent dispatching a waitlist submission, including retries.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(m.submissions, m.background, m.dispatchDuration)
	return m
}
