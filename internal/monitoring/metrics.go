package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"
)

// Metrics holds in-process request counters. Safe for concurrent use.
type Metrics struct {
	mu                  sync.RWMutex
	RequestCount        int64
	RequestDuration     time.Duration
	ErrorCount          int64
	EndpointCounts      map[string]int64
	StatusCodeCounts    map[int]int64
	AgentFlowBranches   map[string]int64
	AgentFlowFailures   map[string]int64
	StartTime           time.Time
	extraStatsProviders map[string]func() map[string]interface{}
}

// NewMetrics creates an empty metrics registry
func NewMetrics() *Metrics {
	return &Metrics{
		EndpointCounts:      make(map[string]int64),
		StatusCodeCounts:    make(map[int]int64),
		AgentFlowBranches:   make(map[string]int64),
		AgentFlowFailures:   make(map[string]int64),
		StartTime:           time.Now(),
		extraStatsProviders: make(map[string]func() map[string]interface{}),
	}
}

// RecordRequest records a request with its duration and status
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int, endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount++
	m.RequestDuration += duration
	m.StatusCodeCounts[statusCode]++

	// Unrouted paths are folded together so scanners cannot grow the map.
	if statusCode == http.StatusNotFound {
		endpoint = "unmatched"
	}
	if endpoint != "" {
		m.EndpointCounts[endpoint]++
	}

	if statusCode >= 400 {
		m.ErrorCount++
	}
}

// RecordAgentFlow counts a finished pipeline run by branch, or by failed stage
func (m *Metrics) RecordAgentFlow(branch, failedStage string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if failedStage != "" {
		m.AgentFlowFailures[failedStage]++
		return
	}
	m.AgentFlowBranches[branch]++
}

// RegisterStats adds a named section to the stats output
func (m *Metrics) RegisterStats(name string, provider func() map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extraStatsProviders[name] = provider
}

// GetStats returns current statistics
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.StartTime)
	avgDuration := time.Duration(0)
	errorRate := 0.0
	perSecond := 0.0
	if seconds := uptime.Seconds(); seconds > 0 {
		perSecond = float64(m.RequestCount) / seconds
	}
	if m.RequestCount > 0 {
		avgDuration = m.RequestDuration / time.Duration(m.RequestCount)
		errorRate = float64(m.ErrorCount) / float64(m.RequestCount)
	}

	statusCounts := make(map[int]int64, len(m.StatusCodeCounts))
	for k, v := range m.StatusCodeCounts {
		statusCounts[k] = v
	}

	stats := map[string]interface{}{
		"uptime_seconds":      uptime.Seconds(),
		"total_requests":      m.RequestCount,
		"total_errors":        m.ErrorCount,
		"average_duration_ms": avgDuration.Milliseconds(),
		"requests_per_second": perSecond,
		"error_rate":          errorRate,
		"endpoint_requests":   copyCounts(m.EndpointCounts),
		"status_code_counts":  statusCounts,
		"agent_flow": map[string]interface{}{
			"branches": copyCounts(m.AgentFlowBranches),
			"failures": copyCounts(m.AgentFlowFailures),
		},
		"start_time": m.StartTime.Format(time.RFC3339),
	}

	for name, provider := range m.extraStatsProviders {
		if section := provider(); section != nil {
			stats[name] = section
		}
	}
	return stats
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount = 0
	m.RequestDuration = 0
	m.ErrorCount = 0
	m.EndpointCounts = make(map[string]int64)
	m.StatusCodeCounts = make(map[int]int64)
	m.AgentFlowBranches = make(map[string]int64)
	m.AgentFlowFailures = make(map[string]int64)
	m.StartTime = time.Now()
}

// Middleware wraps HTTP handlers to collect metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		m.RecordRequest(time.Since(start), wrapper.statusCode, r.Method+" "+r.URL.Path)
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(data []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(data)
}

// Flush keeps audio streaming working through the wrapper
func (w *responseWriterWrapper) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *responseWriterWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// SetupPprofRoutes adds pprof endpoints to the router
func SetupPprofRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
}

// Handler returns current metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(m.GetStats())
}
