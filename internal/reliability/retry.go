package reliability

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// RetryConfig defines configuration for retry behavior
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// IsRetryable decides whether a failure is worth another attempt.
	// Nil means IsTransient.
	IsRetryable func(error) bool
}

// DefaultRetryConfig returns a single-attempt configuration: no retries
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   1,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      3 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryExecutor handles retry logic with exponential backoff
type RetryExecutor struct {
	config RetryConfig
}

// NewRetryExecutor creates a new retry executor with the given configuration
func NewRetryExecutor(config RetryConfig) *RetryExecutor {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffFactor <= 0 {
		config.BackoffFactor = 2.0
	}
	if config.IsRetryable == nil {
		config.IsRetryable = IsTransient
	}
	return &RetryExecutor{config: config}
}

// MaxAttempts reports the configured attempt ceiling
func (r *RetryExecutor) MaxAttempts() int {
	return r.config.MaxAttempts
}

// ExecuteWithRetry executes an operation with retry logic
func (r *RetryExecutor) ExecuteWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx, "Operation succeeded after retry", "successful_attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if !r.config.IsRetryable(err) {
			return err
		}
		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.calculateBackoff(attempt)
		logger.Warn(logger.WithStage(ctx, logger.LogStages.Retry), "Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, ctx.Err())
		}
	}

	if r.config.MaxAttempts == 1 {
		return lastErr
	}
	return fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxAttempts, lastErr)
}

// calculateBackoff calculates the backoff delay for a given attempt
func (r *RetryExecutor) calculateBackoff(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay) * math.Pow(r.config.BackoffFactor, float64(attempt-1))
	if r.config.MaxDelay > 0 && time.Duration(delay) > r.config.MaxDelay {
		return r.config.MaxDelay
	}
	return time.Duration(delay)
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"temporary failure",
	"network is unreachable",
	"no such host",
	"i/o timeout",
	"connection timed out",
	"broken pipe",
	"unexpected eof",
}

// IsTransient reports whether err looks like a network-level hiccup.
// Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
