package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashari/go-eduverse-backend/test/helpers"
)

func TestHealth(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	resp, body := ts.Do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		Status string                            `json:"status"`
		Checks map[string]map[string]interface{} `json:"checks"`
	}
	helpers.DecodeJSON(t, body, &report)
	assert.Equal(t, "healthy", report.Status)
	assert.Contains(t, report.Checks, "provider_openai")
}

func TestCORS(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	tests := []struct {
		name        string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{name: "allowed origin", origin: "http://localhost:5173", wantStatus: http.StatusNoContent, wantAllowed: "http://localhost:5173"},
		{name: "other origin", origin: "https://example.com", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := ts.Do(http.MethodOptions, "/agent-flow", map[string]string{
				"Origin":                        tt.origin,
				"Access-Control-Request-Method": "POST",
			})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantAllowed, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := helpers.NewTestServer(t, nil)

	resp, _ := ts.Do(http.MethodGet, "/health", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))

	resp, _ = ts.Do(http.MethodGet, "/health", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
