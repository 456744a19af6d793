package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/app"
	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// TestServer runs the full application against a FakeUpstream
type TestServer struct {
	server     *httptest.Server
	app        *app.App
	Upstream   *FakeUpstream
	httpClient *http.Client
	t          *testing.T
}

// NewTestServer creates a new test server; env overrides extra configuration
func NewTestServer(t *testing.T, env map[string]string) *TestServer {
	t.Helper()

	if err := logger.Init(logger.Config{
		Level:       logger.LevelError,
		Format:      "json",
		Output:      "stderr",
		ServiceName: "eduverse-backend-test",
		Environment: "test",
	}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	upstream := NewFakeUpstream()
	t.Cleanup(upstream.Close)

	settings := map[string]string{
		"OPENAI_API_KEY":                    "sk-test",
		"GROQ_API_KEY":                      "gsk-test",
		"ELEVENLABS_API_KEY":                "xi-test",
		"MONGODB_URI":                       "",
		"PROVIDERS_OPENAI_BASE_URL":         upstream.BaseURL("openai"),
		"PROVIDERS_GROQ_BASE_URL":           upstream.BaseURL("groq"),
		"SPEECH_ELEVENLABS_BASE_URL":        upstream.BaseURL("elevenlabs"),
		"SPEECH_PROVIDER":                   "elevenlabs",
		"AGENT_FLOW_TIMEOUT":                "30s",
		"CORS_ALLOWED_ORIGINS":              "http://localhost:5173",
		"AGENT_FLOW_TRANSCRIPTION_PROVIDER": "groq",
	}
	for k, v := range env {
		settings[k] = v
	}
	for k, v := range settings {
		t.Setenv(k, v)
	}

	cfg, err := config.NewLoader().LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	ts := &TestServer{
		server:     httptest.NewServer(application.SetupRoutes()),
		app:        application,
		Upstream:   upstream,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		t:          t,
	}
	t.Cleanup(ts.Close)
	return ts
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.server.Close()
	_ = ts.app.Close(context.Background())
}

// URL returns the base URL of the test server
func (ts *TestServer) URL() string {
	return ts.server.URL
}

// App returns the application instance
func (ts *TestServer) App() *app.App {
	return ts.app
}

// PostJSON sends a JSON body and returns the response and its body
func (ts *TestServer) PostJSON(endpoint string, body interface{}, headers map[string]string) (*http.Response, []byte) {
	ts.t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		ts.t.Fatalf("failed to marshal request body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.server.URL+endpoint, bytes.NewReader(payload))
	if err != nil {
		ts.t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req, headers)
}

// FilePart is one file in a multipart upload
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// PostMultipart sends files and text fields as multipart/form-data
func (ts *TestServer) PostMultipart(endpoint string, files []FilePart, fields map[string]string) (*http.Response, []byte) {
	ts.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			ts.t.Fatalf("failed to create form file: %v", err)
		}
		_, _ = fw.Write(f.Data)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.server.URL+endpoint, &body)
	if err != nil {
		ts.t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(req, nil)
}

// Do sends an arbitrary request
func (ts *TestServer) Do(method, endpoint string, headers map[string]string) (*http.Response, []byte) {
	ts.t.Helper()
	req, err := http.NewRequest(method, ts.server.URL+endpoint, nil)
	if err != nil {
		ts.t.Fatalf("failed to create request: %v", err)
	}
	return ts.do(req, headers)
}

func (ts *TestServer) do(req *http.Request, headers map[string]string) (*http.Response, []byte) {
	ts.t.Helper()
	req.Header.Set("User-Agent", "EduverseBackend-Test/1.0")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		ts.t.Fatalf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("failed to read response body: %v", err)
	}
	return resp, respBody
}

// DecodeJSON unmarshals a response body or fails the test
func DecodeJSON(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("invalid JSON response %q: %v", string(body), err)
	}
}

// Describe formats a response for assertion messages
func Describe(resp *http.Response, body []byte) string {
	return fmt.Sprintf("status=%d body=%s", resp.StatusCode, string(body))
}
