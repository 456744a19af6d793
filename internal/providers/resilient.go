package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/reliability"
)

// Resilient decorates an Adapter with retries and per-operation circuit
// breakers. With one attempt and breakers disabled it is a pass-through.
type Resilient struct {
	next     Adapter
	retry    *reliability.RetryExecutor
	breakers *reliability.CircuitBreakerManager
}

// NewResilient wraps next according to the resilience settings
func NewResilient(next Adapter, cfg config.ResilienceConfig) *Resilient {
	r := &Resilient{
		next: next,
		retry: reliability.NewRetryExecutor(reliability.RetryConfig{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      cfg.MaxDelay,
			BackoffFactor: 2.0,
			IsRetryable:   IsRetryable,
		}),
	}
	if cfg.BreakerEnabled {
		r.breakers = reliability.NewCircuitBreakerManager(reliability.CircuitBreakerConfig{
			MaxFailures:  cfg.BreakerMaxFailures,
			ResetTimeout: cfg.BreakerResetTimeout,
		})
	}
	return r
}

// IsRetryable treats rate limiting, 5xx responses and transport hiccups as transient
func IsRetryable(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.StatusCode == http.StatusTooManyRequests || upstream.StatusCode >= 500 {
			return true
		}
		if upstream.StatusCode != 0 {
			return false
		}
		if upstream.Err != nil {
			return reliability.IsTransient(upstream.Err)
		}
	}
	return reliability.IsTransient(err)
}

// BreakerStats reports circuit breaker states, or nil when breakers are disabled
func (r *Resilient) BreakerStats() map[string]interface{} {
	if r.breakers == nil {
		return nil
	}
	return r.breakers.Stats()
}

func (r *Resilient) run(ctx context.Context, provider, operation string, call func() error) error {
	attempt := call
	if r.breakers != nil {
		breaker := r.breakers.Get(provider + "." + operation)
		attempt = func() error {
			err := breaker.Execute(ctx, call)
			if errors.Is(err, reliability.ErrCircuitOpen) {
				return &UpstreamError{Provider: provider, Operation: operation, Message: err.Error(), Err: err}
			}
			return err
		}
	}

	err := r.retry.ExecuteWithRetry(ctx, attempt)
	if _, direct := err.(*UpstreamError); err == nil || direct {
		return err
	}

	// Keep the UpstreamError shape after the retry executor wraps it.
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return &UpstreamError{
			Provider:   upstream.Provider,
			Operation:  upstream.Operation,
			Message:    fmt.Sprintf("%s (after %d attempts)", upstream.Message, r.retry.MaxAttempts()),
			StatusCode: upstream.StatusCode,
			Err:        err,
		}
	}
	return err
}

// CompleteChat implements Adapter
func (r *Resilient) CompleteChat(ctx context.Context, prompt string, provider Name, params GenerationParams) (string, error) {
	var out string
	err := r.run(ctx, string(provider), OperationChat, func() error {
		var err error
		out, err = r.next.CompleteChat(ctx, prompt, provider, params)
		return err
	})
	return out, err
}

// Transcribe implements Adapter
func (r *Resilient) Transcribe(ctx context.Context, audio Audio, provider Name) (string, error) {
	var out string
	err := r.run(ctx, string(provider), OperationTranscription, func() error {
		var err error
		out, err = r.next.Transcribe(ctx, audio, provider)
		return err
	})
	return out, err
}

// SynthesizeSpeech implements Adapter. Only opening the stream is retried.
func (r *Resilient) SynthesizeSpeech(ctx context.Context, text, voiceID string, streaming bool) (*Speech, error) {
	var out *Speech
	err := r.run(ctx, "tts", OperationSpeech, func() error {
		var err error
		out, err = r.next.SynthesizeSpeech(ctx, text, voiceID, streaming)
		return err
	})
	return out, err
}

// DescribeImage implements Adapter
func (r *Resilient) DescribeImage(ctx context.Context, image Image, prompt string, params GenerationParams) (string, error) {
	var out string
	err := r.run(ctx, "vision", OperationVision, func() error {
		var err error
		out, err = r.next.DescribeImage(ctx, image, prompt, params)
		return err
	})
	return out, err
}
