package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func failN(t *testing.T, cb *CircuitBreaker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), func() error { return errUpstream })
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "groq", MaxFailures: 2, ResetTimeout: time.Minute})

	failN(t, cb, 1)
	assert.Equal(t, StateClosed, cb.State())

	failN(t, cb, 1)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "openai", MaxFailures: 2, ResetTimeout: time.Minute})

	failN(t, cb, 1)
	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	failN(t, cb, 1)

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "elevenlabs", MaxFailures: 1, ResetTimeout: time.Second})
	cb.now = func() time.Time { return now }

	failN(t, cb, 1)
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Second)
	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "groq", MaxFailures: 3, ResetTimeout: time.Second})
	cb.now = func() time.Time { return now }

	failN(t, cb, 3)
	now = now.Add(2 * time.Second)

	err := cb.Execute(context.Background(), func() error { return errUpstream })
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "openai", MaxFailures: 1, ResetTimeout: time.Minute})

	_ = cb.Execute(context.Background(), func() error { return context.Canceled })

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerManager(t *testing.T) {
	manager := NewCircuitBreakerManager(DefaultCircuitBreakerConfig(""))

	first := manager.Get("openai")
	assert.Same(t, first, manager.Get("openai"))
	assert.NotSame(t, first, manager.Get("groq"))

	stats := manager.Stats()
	assert.Len(t, stats, 2)
	assert.Equal(t, "CLOSED", stats["openai"].(map[string]interface{})["state"])
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", CircuitState(42).String())
}
