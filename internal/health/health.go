package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// HealthCheck represents a single health check
type HealthCheck struct {
	Name        string
	Description string
	Check       func(ctx context.Context) HealthCheckResult
	Timeout     time.Duration
	Critical    bool // If true, failure affects overall system health
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status     HealthStatus           `json:"status"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	DurationMS int64                  `json:"duration_ms"`
}

// Report is the /health response body
type Report struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp string                       `json:"timestamp"`
	Version   string                       `json:"version"`
	Uptime    int64                        `json:"uptime_seconds"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// HealthChecker manages and executes health checks
type HealthChecker struct {
	checks    map[string]*HealthCheck
	mutex     sync.RWMutex
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	if version == "" {
		version = "unknown"
	}
	return &HealthChecker{
		checks:    make(map[string]*HealthCheck),
		version:   version,
		startTime: time.Now(),
	}
}

// RegisterCheck registers a new health check
func (hc *HealthChecker) RegisterCheck(check *HealthCheck) {
	hc.mutex.Lock()
	defer hc.mutex.Unlock()

	if check.Timeout == 0 {
		check.Timeout = 5 * time.Second
	}
	hc.checks[check.Name] = check
}

// Names returns the registered check names, sorted
func (hc *HealthChecker) Names() []string {
	hc.mutex.RLock()
	defer hc.mutex.RUnlock()

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteCheck executes a single health check
func (hc *HealthChecker) ExecuteCheck(ctx context.Context, name string) (*HealthCheckResult, error) {
	hc.mutex.RLock()
	check, exists := hc.checks[name]
	hc.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("health check %s not found", name)
	}

	result := hc.executeCheck(ctx, check)
	return &result, nil
}

// ExecuteAllChecks executes all registered health checks concurrently
func (hc *HealthChecker) ExecuteAllChecks(ctx context.Context) map[string]HealthCheckResult {
	hc.mutex.RLock()
	checks := make([]*HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mutex.RUnlock()

	results := make(map[string]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	var resultMutex sync.Mutex

	for _, check := range checks {
		wg.Add(1)
		go func(check *HealthCheck) {
			defer wg.Done()
			result := hc.executeCheck(ctx, check)

			resultMutex.Lock()
			results[check.Name] = result
			resultMutex.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}

func (hc *HealthChecker) executeCheck(ctx context.Context, check *HealthCheck) HealthCheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()

	start := time.Now()
	result := check.Check(checkCtx)
	result.Timestamp = start
	result.DurationMS = time.Since(start).Milliseconds()

	logger.Debug(ctx, "Health check executed",
		"name", check.Name,
		"status", string(result.Status),
		"duration_ms", result.DurationMS,
		"message", result.Message)

	return result
}

// GetOverallHealth determines the overall system health. A failing critical
// check makes the service unhealthy; anything else not healthy degrades it.
func (hc *HealthChecker) GetOverallHealth(ctx context.Context) (HealthStatus, map[string]HealthCheckResult) {
	results := hc.ExecuteAllChecks(ctx)

	hc.mutex.RLock()
	defer hc.mutex.RUnlock()

	overallStatus := StatusHealthy
	for name, result := range results {
		switch {
		case result.Status == StatusUnhealthy && hc.checks[name].Critical:
			overallStatus = StatusUnhealthy
		case result.Status != StatusHealthy && overallStatus == StatusHealthy:
			overallStatus = StatusDegraded
		}
	}

	return overallStatus, results
}

// Handler serves /health; ?check=name runs a single check
func (hc *HealthChecker) Handler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithComponent(r.Context(), logger.ComponentNames.Health)

	if checkName := r.URL.Query().Get("check"); checkName != "" {
		result, err := hc.ExecuteCheck(ctx, checkName)
		if err != nil {
			errors.HandleErrorCtx(ctx, w, errors.NewNotFoundError(err.Error()), http.StatusNotFound)
			return
		}
		writeJSON(ctx, w, statusCode(result.Status), result)
		return
	}

	overallStatus, results := hc.GetOverallHealth(ctx)
	writeJSON(ctx, w, statusCode(overallStatus), Report{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   hc.version,
		Uptime:    int64(time.Since(hc.startTime).Seconds()),
		Checks:    results,
	})
}

// statusCode keeps degraded services at 200 so load balancers keep routing
func statusCode(status HealthStatus) int {
	if status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(ctx, "Failed to write health response", err)
	}
}
