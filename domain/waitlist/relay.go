package waitlist

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/pkg/circuitbreaker"
	apperrors "github.com/noctura/landing/pkg/errors"
	"github.com/noctura/landing/pkg/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/noctura/landing/domain/waitlist"

// maxDrainBytes bounds how much of an upstream body is read before closing it.
const maxDrainBytes = 64 << 10

type FormRelayConfig struct {
	Endpoint    string
	Timeout     time.Duration
	MaxAttempts int
	HTTPClient  *http.Client
	Breaker     circuitbreaker.CircuitBreaker
	Retry       retry.RetryPolicy
	Logger      *log.Logger
}

// FormRelay posts the email as a single urlencoded field to a hosted form endpoint
// and reads the real status code back.
type FormRelay struct {
	endpoint    string
	destination string
	client      *http.Client
	breaker     circuitbreaker.CircuitBreaker
	retry       retry.RetryPolicy
	logger      *log.Logger
	tracer      trace.Tracer
}

func NewFormRelay(cfg FormRelayConfig) (*FormRelay, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" {
		return nil, apperrors.NewInvalidRequestError("waitlist form endpoint must be an absolute URL", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	breaker := cfg.Breaker
	if breaker == nil {
		breaker = NewRelayCircuitBreaker()
	}

	policy := cfg.Retry
	if policy == nil {
		rc := retry.DefaultConfig()
		if cfg.MaxAttempts > 0 {
			rc.MaxAttempts = cfg.MaxAttempts
		}
		rc.MaxDelay = 2 * time.Second
		policy = retry.NewExponentialBackoff(rc)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	return &FormRelay{
		endpoint:    u.String(),
		destination: u.Host,
		client:      client,
		breaker:     breaker,
		retry:       policy,
		logger:      logger.WithComponent("form_relay"),
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// NewRelayCircuitBreaker only counts transient failures; a rejected email must not trip the circuit.
func NewRelayCircuitBreaker() circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 1,
		IsFailure:        retry.IsRetryable,
	})
}

func (r *FormRelay) Destination() string {
	return r.destination
}

func (r *FormRelay) BreakerState() circuitbreaker.CircuitState {
	return r.breaker.State()
}

func (r *FormRelay) Dispatch(ctx context.Context, submission Submission) (Receipt, error) {
	ctx, span := r.tracer.Start(ctx, "waitlist.relay.form", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("waitlist.destination", r.destination))

	receipt := Receipt{Destination: r.destination}
	attempts := 0

	err := r.retry.Execute(ctx, func(ctx context.Context) error {
		attempts++
		return r.breaker.Call(func() error {
			status, err := r.post(ctx, submission)
			receipt.StatusCode = status
			return err
		})
	})

	span.SetAttributes(
		attribute.Int("http.response.status_code", receipt.StatusCode),
		attribute.Int("waitlist.attempts", attempts),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay failed")
		log.GetLoggerInstanceFromContext(ctx, r.logger).Warn("Form relay dispatch failed",
			"destination", r.destination,
			"attempts", attempts,
			"status_code", receipt.StatusCode,
			"error", err,
		)
		return receipt, classifyRelayError(err)
	}

	receipt.Acknowledged = true
	return receipt, nil
}

func (r *FormRelay) post(ctx context.Context, submission Submission) (int, error) {
	form := url.Values{}
	form.Set("email", submission.Email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &UpstreamStatusError{Destination: r.destination, StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

// classifyRelayError keeps the cause for logs while the message stays user-safe.
func classifyRelayError(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return apperrors.NewServiceUnavailableError(MessageFailed, err)
	}
	return apperrors.NewBadGatewayError(MessageFailed, err)
}
