package waitlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/noctura/landing/internal/log"
	apperrors "github.com/noctura/landing/pkg/errors"
)

// DispatchObserver receives the eventual result of a background dispatch.
type DispatchObserver func(ctx context.Context, submission Submission, receipt Receipt, err error)

// FireAndForget hands submissions to a background goroutine and reports success at once.
// The caller never learns the destination's answer; observer does.
type FireAndForget struct {
	next     Dispatcher
	timeout  time.Duration
	logger   *log.Logger
	observer DispatchObserver

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewFireAndForget(next Dispatcher, timeout time.Duration, logger *log.Logger, observer DispatchObserver) *FireAndForget {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.NewDiscardLogger()
	}
	return &FireAndForget{
		next:     next,
		timeout:  timeout,
		logger:   logger,
		observer: observer,
	}
}

func (f *FireAndForget) Destination() string {
	return f.next.Destination()
}

func (f *FireAndForget) Dispatch(ctx context.Context, submission Submission) (Receipt, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Receipt{Destination: f.Destination()}, apperrors.NewServiceUnavailableError(MessageFailed, ErrDispatcherClosed)
	}
	f.wg.Add(1)
	f.mu.Unlock()

	// Detached from the request so the response does not cancel delivery; values such as
	// the correlation ID carry over.
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)

	go func() {
		defer f.wg.Done()
		defer cancel()

		receipt, err := f.run(bgCtx, submission)
		logger := log.GetLoggerInstanceFromContext(bgCtx, f.logger)
		if err != nil {
			logger.Error("Background waitlist dispatch failed", "destination", f.Destination(), "error", err)
		} else {
			logger.Info("Background waitlist dispatch completed", "destination", receipt.Destination, "status_code", receipt.StatusCode)
		}

		if f.observer != nil {
			f.observer(bgCtx, submission, receipt, err)
		}
	}()

	return Receipt{Acknowledged: false, Destination: f.Destination()}, nil
}

func (f *FireAndForget) run(ctx context.Context, submission Submission) (receipt Receipt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("waitlist: background dispatcher panicked: %v", r)
		}
	}()
	return f.next.Dispatch(ctx, submission)
}

// Close stops accepting submissions and waits for in-flight ones until ctx is done.
func (f *FireAndForget) Close(ctx context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waitlist: pending background dispatches abandoned: %w", ctx.Err())
	}
}
