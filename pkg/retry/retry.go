package retry

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

type RetryPolicy interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultConfig returns conservative defaults for backoff retries.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// Retryable lets callers classify their own errors instead of relying on message patterns.
type Retryable interface {
	Retryable() bool
}

// ExponentialBackoff retries with exponential delay between attempts.
type ExponentialBackoff struct {
	config *Config
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewExponentialBackoff applies defaults when config is nil.
func NewExponentialBackoff(config *Config) *ExponentialBackoff {
	if config == nil {
		config = DefaultConfig()
	}
	return &ExponentialBackoff{config: config, sleep: sleepContext}
}

func (eb *ExponentialBackoff) Execute(ctx context.Context, fn func(context.Context) error) error {
	return run(ctx, eb.config.MaxAttempts, fn, eb.sleep, eb.calculateDelay)
}

func (eb *ExponentialBackoff) calculateDelay(attempt int) time.Duration {
	delay := float64(eb.config.BaseDelay) * math.Pow(eb.config.Multiplier, float64(attempt-1))
	if delay > float64(eb.config.MaxDelay) {
		delay = float64(eb.config.MaxDelay)
	}

	return time.Duration(delay)
}

// FixedDelay retries with a constant delay between attempts.
type FixedDelay struct {
	config *Config
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewFixedDelay applies defaults when config is nil.
func NewFixedDelay(config *Config) *FixedDelay {
	if config == nil {
		config = DefaultConfig()
	}
	return &FixedDelay{config: config, sleep: sleepContext}
}

func (fd *FixedDelay) Execute(ctx context.Context, fn func(context.Context) error) error {
	return run(ctx, fd.config.MaxAttempts, fn, fd.sleep, func(int) time.Duration {
		return fd.config.BaseDelay
	})
}

func run(
	ctx context.Context,
	maxAttempts int,
	fn func(context.Context) error,
	sleep func(context.Context, time.Duration) error,
	delayFor func(attempt int) time.Duration,
) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return &MaxRetriesExceededError{LastError: lastErr, MaxAttempts: attempt - 1}
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == maxAttempts {
			break
		}

		if !IsRetryable(err) {
			return err
		}

		if err := sleep(ctx, delayFor(attempt)); err != nil {
			return &MaxRetriesExceededError{LastError: lastErr, MaxAttempts: attempt}
		}
	}

	return &MaxRetriesExceededError{
		LastError:   lastErr,
		MaxAttempts: maxAttempts,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable prefers an explicit Retryable classification and falls back to
// well-known transient failure messages.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"eof",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// MaxRetriesExceededError indicates that all retry attempts were exhausted.
type MaxRetriesExceededError struct {
	LastError   error
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return "max retries exceeded"
}

func (e *MaxRetriesExceededError) Unwrap() error {
	return e.LastError
}

// IsMaxRetriesExceeded reports whether err is a MaxRetriesExceededError.
func IsMaxRetriesExceeded(err error) bool {
	var maxRetriesErr *MaxRetriesExceededError
	return errors.As(err, &maxRetriesErr)
}
