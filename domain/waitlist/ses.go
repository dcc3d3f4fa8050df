package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/pkg/circuitbreaker"
	"github.com/noctura/landing/pkg/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESRelayConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	From            string
	To              string
	MaxAttempts     int
	Breaker         circuitbreaker.CircuitBreaker
	Retry           retry.RetryPolicy
	Logger          *log.Logger
}

// SESRelay delivers each signup as a plain-text e-mail to the team inbox.
type SESRelay struct {
	client  sesAPI
	from    string
	to      string
	breaker circuitbreaker.CircuitBreaker
	retry   retry.RetryPolicy
	logger  *log.Logger
	tracer  trace.Tracer
}

func NewSESRelay(cfg SESRelayConfig) *SESRelay {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	return newSESRelay(ses.NewFromConfig(awsCfg), cfg)
}

func newSESRelay(client sesAPI, cfg SESRelayConfig) *SESRelay {
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

	return &SESRelay{
		client:  client,
		from:    cfg.From,
		to:      cfg.To,
		breaker: breaker,
		retry:   policy,
		logger:  logger.WithComponent("ses_relay"),
		tracer:  otel.Tracer(tracerName),
	}
}

func (r *SESRelay) Destination() string {
	return "ses"
}

func (r *SESRelay) BreakerState() circuitbreaker.CircuitState {
	return r.breaker.State()
}

func (r *SESRelay) Dispatch(ctx context.Context, submission Submission) (Receipt, error) {
	ctx, span := r.tracer.Start(ctx, "waitlist.relay.ses", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	receipt := Receipt{Destination: r.Destination()}
	input := r.buildInput(submission)

	var messageID string
	err := r.retry.Execute(ctx, func(ctx context.Context) error {
		return r.breaker.Call(func() error {
			out, err := r.client.SendEmail(ctx, input)
			if err != nil {
				return classifySESError(err)
			}
			messageID = aws.ToString(out.MessageId)
			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ses send failed")
		log.GetLoggerInstanceFromContext(ctx, r.logger).Warn("SES relay dispatch failed", "error", err)
		return receipt, classifyRelayError(err)
	}

	span.SetAttributes(attribute.String("aws.ses.message_id", messageID))
	receipt.Acknowledged = true
	receipt.StatusCode = 200
	return receipt, nil
}

func (r *SESRelay) buildInput(submission Submission) *ses.SendEmailInput {
	body := fmt.Sprintf("New Noctura waitlist signup\n\nEmail: %s\nSubmitted at: %s\nCorrelation ID: %s\n",
		submission.Email,
		submission.SubmittedAt.Format(time.RFC3339),
		submission.CorrelationID,
	)

	return &ses.SendEmailInput{
		Source: aws.String(r.from),
		Destination: &types.Destination{
			ToAddresses: []string{r.to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String("Noctura waitlist signup"),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
}

// sesError carries smithy's fault classification into the retry policy.
type sesError struct {
	err       error
	retryable bool
	rejected  bool
}

func (e *sesError) Error() string   { return e.err.Error() }
func (e *sesError) Unwrap() error   { return e.err }
func (e *sesError) Retryable() bool { return e.retryable }
func (e *sesError) Rejected() bool  { return e.rejected }

func classifySESError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		retryable := apiErr.ErrorFault() == smithy.FaultServer || apiErr.ErrorCode() == "Throttling"
		return &sesError{
			err:       err,
			retryable: retryable,
			rejected:  !retryable && apiErr.ErrorFault() == smithy.FaultClient,
		}
	}
	return &sesError{err: err, retryable: retry.IsRetryable(err)}
}
