package shell

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryOption configures the retry behavior.
type RetryOption func(*retryConfig) error

// retryConfig holds configuration for exponential backoff retry logic.
type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

// WithMaxAttempts sets the maximum number of attempts (including the first).
func WithMaxAttempts(maxAttempts int) RetryOption {
	return func(config *retryConfig) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = maxAttempts

		return nil
	}
}

// WithBaseDelay sets the delay before the first retry; it doubles per attempt.
func WithBaseDelay(baseDelay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if baseDelay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = baseDelay

		return nil
	}
}

// WithJitterFactor sets the random jitter added on top of each backoff delay.
func WithJitterFactor(jitterFactor float64) RetryOption {
	return func(config *retryConfig) error {
		if jitterFactor < 0.0 || jitterFactor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = jitterFactor

		return nil
	}
}

// RetryWithExponentialBackoff implements optimistic concurrency retry logic.
// It executes the provided function with exponential backoff retry logic,
// retrying only on retryable errors up to maxAttempts times.
//
// Retry Schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms (with 30% jitter)
//
// Only eventstore.ErrConsistencyMarkerSurpassed is retried - all other errors fail fast.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) error {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))

			// Add jitter to prevent thundering herd
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec //math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			select {
			case <-time.After(backoffDelay):
				// Continue with retry
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !errors.Is(lastErr, eventstore.ErrConsistencyMarkerSurpassed) {
			return lastErr
		}
	}

	return lastErr
}
