package reliability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// ErrCircuitOpen is returned while a breaker is rejecting calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	// StateClosed - circuit is closed, requests are allowed
	StateClosed CircuitState = iota
	// StateOpen - circuit is open, requests are rejected
	StateOpen
	// StateHalfOpen - one trial request is allowed through
	StateHalfOpen
)

// String returns the string representation of the circuit state
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig defines configuration for circuit breaker behavior
type CircuitBreakerConfig struct {
	Name         string
	MaxFailures  int
	ResetTimeout time.Duration
}

// DefaultCircuitBreakerConfig returns a sensible default configuration
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxFailures:  5,
		ResetTimeout: 30 * time.Second,
	}
}

// CircuitBreaker opens after MaxFailures consecutive failures and lets a
// single trial call through once ResetTimeout has elapsed.
type CircuitBreaker struct {
	config        CircuitBreakerConfig
	mutex         sync.Mutex
	state         CircuitState
	failures      int
	trialInFlight bool
	openedAt      time.Time
	now           func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures < 1 {
		config.MaxFailures = 1
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Execute executes an operation through the circuit breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, operation func() error) error {
	if err := cb.beforeCall(ctx); err != nil {
		return err
	}

	err := operation()
	cb.afterCall(ctx, err)
	return err
}

func (cb *CircuitBreaker) beforeCall(ctx context.Context) error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.config.ResetTimeout {
			return fmt.Errorf("%s: %w", cb.config.Name, ErrCircuitOpen)
		}
		cb.state = StateHalfOpen
		cb.trialInFlight = true
		logger.Info(ctx, "Circuit breaker half-open", "circuit_name", cb.config.Name)
		return nil
	case StateHalfOpen:
		if cb.trialInFlight {
			return fmt.Errorf("%s: %w", cb.config.Name, ErrCircuitOpen)
		}
		cb.trialInFlight = true
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) afterCall(ctx context.Context, err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	// Caller cancellation says nothing about upstream health.
	if errors.Is(err, context.Canceled) {
		cb.trialInFlight = false
		return
	}

	if err == nil {
		if cb.state != StateClosed {
			logger.Info(ctx, "Circuit breaker closed", "circuit_name", cb.config.Name)
		}
		cb.state = StateClosed
		cb.failures = 0
		cb.trialInFlight = false
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.config.MaxFailures {
		cb.state = StateOpen
		cb.openedAt = cb.now()
		cb.trialInFlight = false
		logger.Warn(ctx, "Circuit breaker opened",
			"circuit_name", cb.config.Name,
			"consecutive_failures", cb.failures,
			"reset_timeout_ms", cb.config.ResetTimeout.Milliseconds())
	}
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Stats returns a snapshot for the metrics endpoint
func (cb *CircuitBreaker) Stats() map[string]interface{} {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return map[string]interface{}{
		"state":                cb.state.String(),
		"consecutive_failures": cb.failures,
	}
}

// CircuitBreakerManager hands out one breaker per name
type CircuitBreakerManager struct {
	breakers map[string]*CircuitBreaker
	template CircuitBreakerConfig
	mutex    sync.Mutex
}

// NewCircuitBreakerManager creates a manager whose breakers share the template config
func NewCircuitBreakerManager(template CircuitBreakerConfig) *CircuitBreakerManager {
	return &CircuitBreakerManager{
		breakers: make(map[string]*CircuitBreaker),
		template: template,
	}
}

// Get returns the breaker for name, creating it on first use
func (cbm *CircuitBreakerManager) Get(name string) *CircuitBreaker {
	cbm.mutex.Lock()
	defer cbm.mutex.Unlock()

	if cb, ok := cbm.breakers[name]; ok {
		return cb
	}
	cfg := cbm.template
	cfg.Name = name
	cb := NewCircuitBreaker(cfg)
	cbm.breakers[name] = cb
	return cb
}

// Stats returns statistics for all circuit breakers
func (cbm *CircuitBreakerManager) Stats() map[string]interface{} {
	cbm.mutex.Lock()
	defer cbm.mutex.Unlock()

	stats := make(map[string]interface{}, len(cbm.breakers))
	for name, cb := range cbm.breakers {
		stats[name] = cb.Stats()
	}
	return stats
}
