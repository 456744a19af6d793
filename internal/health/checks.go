package health

import (
	"context"
	"fmt"
	"time"
)

// ApplicationCheck always reports healthy while the process serves requests
func ApplicationCheck() *HealthCheck {
	return &HealthCheck{
		Name:        "application",
		Description: "Basic application health",
		Critical:    true,
		Timeout:     time.Second,
		Check: func(context.Context) HealthCheckResult {
			return HealthCheckResult{Status: StatusHealthy, Message: "Application is running"}
		},
	}
}

// CredentialCheck reports whether a provider API key is configured. A missing
// key degrades the service since the other endpoints keep working.
func CredentialCheck(provider, envName string, configured bool) *HealthCheck {
	return &HealthCheck{
		Name:        "provider_" + provider,
		Description: fmt.Sprintf("%s credentials", provider),
		Timeout:     time.Second,
		Check: func(context.Context) HealthCheckResult {
			if !configured {
				return HealthCheckResult{
					Status:  StatusDegraded,
					Message: fmt.Sprintf("%s is not set", envName),
				}
			}
			return HealthCheckResult{Status: StatusHealthy, Message: "API key configured"}
		},
	}
}

// CircuitBreakerCheck degrades the service while any breaker is open
func CircuitBreakerCheck(stats func() map[string]interface{}) *HealthCheck {
	return &HealthCheck{
		Name:        "circuit_breakers",
		Description: "Provider circuit breaker status",
		Timeout:     time.Second,
		Check: func(context.Context) HealthCheckResult {
			all := stats()
			openCircuits := 0
			for _, stat := range all {
				if statMap, ok := stat.(map[string]interface{}); ok && statMap["state"] == "OPEN" {
					openCircuits++
				}
			}

			if openCircuits > 0 {
				return HealthCheckResult{
					Status:  StatusDegraded,
					Message: fmt.Sprintf("%d circuit breaker(s) are open", openCircuits),
					Details: map[string]interface{}{"circuit_breakers": all},
				}
			}
			return HealthCheckResult{
				Status:  StatusHealthy,
				Message: "All circuit breakers are closed",
				Details: map[string]interface{}{"circuit_breakers": all},
			}
		},
	}
}

// PingCheck wraps a connectivity probe such as a MongoDB ping
func PingCheck(name, description string, ping func(ctx context.Context) error) *HealthCheck {
	return &HealthCheck{
		Name:        name,
		Description: description,
		Timeout:     2 * time.Second,
		Check: func(ctx context.Context) HealthCheckResult {
			if err := ping(ctx); err != nil {
				return HealthCheckResult{Status: StatusUnhealthy, Message: err.Error()}
			}
			return HealthCheckResult{Status: StatusHealthy, Message: "Reachable"}
		},
	}
}
