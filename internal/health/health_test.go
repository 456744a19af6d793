package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashari/go-eduverse-backend/internal/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Config{Level: logger.LevelError, Format: "json", Output: "stderr"})
	os.Exit(m.Run())
}

func TestGetOverallHealth(t *testing.T) {
	tests := []struct {
		name   string
		checks []*HealthCheck
		want   HealthStatus
	}{
		{
			name:   "all healthy",
			checks: []*HealthCheck{ApplicationCheck(), CredentialCheck("openai", "OPENAI_API_KEY", true)},
			want:   StatusHealthy,
		},
		{
			name:   "missing key degrades",
			checks: []*HealthCheck{ApplicationCheck(), CredentialCheck("groq", "GROQ_API_KEY", false)},
			want:   StatusDegraded,
		},
		{
			name: "non-critical failure degrades",
			checks: []*HealthCheck{
				ApplicationCheck(),
				PingCheck("database", "MongoDB", func(context.Context) error { return errors.New("no primary") }),
			},
			want: StatusDegraded,
		},
		{
			name: "critical failure is unhealthy",
			checks: []*HealthCheck{{
				Name:     "core",
				Critical: true,
				Check: func(context.Context) HealthCheckResult {
					return HealthCheckResult{Status: StatusUnhealthy, Message: "down"}
				},
			}},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker("test")
			for _, check := range tt.checks {
				hc.RegisterCheck(check)
			}

			status, results := hc.GetOverallHealth(context.Background())
			assert.Equal(t, tt.want, status)
			assert.Len(t, results, len(tt.checks))
		})
	}
}

func TestCircuitBreakerCheck(t *testing.T) {
	stats := map[string]interface{}{
		"groq.chat":   map[string]interface{}{"state": "OPEN"},
		"openai.chat": map[string]interface{}{"state": "CLOSED"},
	}
	check := CircuitBreakerCheck(func() map[string]interface{} { return stats })

	result := check.Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)
	assert.Equal(t, "1 circuit breaker(s) are open", result.Message)
}

func TestExecuteCheck_Timeout(t *testing.T) {
	hc := NewHealthChecker("test")
	hc.RegisterCheck(&HealthCheck{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Check: func(ctx context.Context) HealthCheckResult {
			<-ctx.Done()
			return HealthCheckResult{Status: StatusUnhealthy, Message: ctx.Err().Error()}
		},
	})

	result, err := hc.ExecuteCheck(context.Background(), "slow")
	require.NoError(t, err)
	assert.Equal(t, StatusUnhealthy, result.Status)

	_, err = hc.ExecuteCheck(context.Background(), "missing")
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	hc := NewHealthChecker("abc123")
	hc.RegisterCheck(ApplicationCheck())
	hc.RegisterCheck(CredentialCheck("elevenlabs", "ELEVENLABS_API_KEY", false))

	rr := httptest.NewRecorder()
	hc.Handler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var report Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, "abc123", report.Version)
	assert.Equal(t, "ELEVENLABS_API_KEY is not set", report.Checks["provider_elevenlabs"].Message)
	assert.Equal(t, []string{"application", "provider_elevenlabs"}, hc.Names())
}

func TestHandler_SingleCheck(t *testing.T) {
	hc := NewHealthChecker("")
	hc.RegisterCheck(ApplicationCheck())

	rr := httptest.NewRecorder()
	hc.Handler(rr, httptest.NewRequest(http.MethodGet, "/health?check=application", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	hc.Handler(rr, httptest.NewRequest(http.MethodGet, "/health?check=unknown", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Unhealthy(t *testing.T) {
	hc := NewHealthChecker("")
	hc.RegisterCheck(&HealthCheck{
		Name:     "core",
		Critical: true,
		Check: func(context.Context) HealthCheckResult {
			return HealthCheckResult{Status: StatusUnhealthy}
		},
	})

	rr := httptest.NewRecorder()
	hc.Handler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
