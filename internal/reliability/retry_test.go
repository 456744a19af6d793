package reliability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestExecuteWithRetry_DefaultConfigDoesNotRetry(t *testing.T) {
	executor := NewRetryExecutor(DefaultRetryConfig())
	calls := 0
	sentinel := errors.New("connection refused")

	err := executor.ExecuteWithRetry(context.Background(), func() error {
		calls++
		return sentinel
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, sentinel, err)
}

func TestExecuteWithRetry_RecoversFromTransientFailure(t *testing.T) {
	executor := NewRetryExecutor(fastRetryConfig(3))
	calls := 0

	err := executor.ExecuteWithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("read tcp: connection reset by peer")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	executor := NewRetryExecutor(fastRetryConfig(5))
	calls := 0

	err := executor.ExecuteWithRetry(context.Background(), func() error {
		calls++
		return errors.New("invalid api key")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_ExhaustsAttempts(t *testing.T) {
	executor := NewRetryExecutor(fastRetryConfig(2))
	sentinel := errors.New("i/o timeout")

	err := executor.ExecuteWithRetry(context.Background(), func() error { return sentinel })

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestExecuteWithRetry_CustomPredicate(t *testing.T) {
	cfg := fastRetryConfig(4)
	cfg.IsRetryable = func(err error) bool { return err.Error() == "try again" }
	executor := NewRetryExecutor(cfg)
	calls := 0

	err := executor.ExecuteWithRetry(context.Background(), func() error {
		calls++
		return errors.New("try again")
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	cfg := fastRetryConfig(5)
	cfg.InitialDelay = time.Second
	executor := NewRetryExecutor(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := executor.ExecuteWithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCalculateBackoff(t *testing.T) {
	executor := NewRetryExecutor(RetryConfig{
		MaxAttempts:   5,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 2.0,
	})

	assert.Equal(t, 100*time.Millisecond, executor.calculateBackoff(1))
	assert.Equal(t, 200*time.Millisecond, executor.calculateBackoff(2))
	assert.Equal(t, 300*time.Millisecond, executor.calculateBackoff(3))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:1: connection refused"), true},
		{"wrapped eof", fmt.Errorf("reading body: %w", errors.New("unexpected EOF")), true},
		{"context cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{"circuit open", fmt.Errorf("groq: %w", ErrCircuitOpen), false},
		{"auth failure", errors.New("401 unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
