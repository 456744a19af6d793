package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/utils"
)

// Header constants
const (
	RequestIDHeader     = utils.HeaderRequestID
	CorrelationIDHeader = utils.HeaderCorrelationID
)

// TrackingIDSources records where the tracking ids came from
type TrackingIDSources struct {
	RequestIDSource     string `json:"request_id_source"`
	CorrelationIDSource string `json:"correlation_id_source"`
}

// RequestCorrelationMiddleware assigns request and correlation ids, echoes them
// in response headers and logs a summary of every request. Bodies are neither
// buffered nor logged since uploads and audio streams pass through here.
func RequestCorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, correlationID, sources := extractTrackingIDs(r)

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		ctx = context.WithValue(ctx, logger.CorrelationIDKey, correlationID)
		ctx = logger.WithComponent(ctx, logger.ComponentNames.Middleware)

		logger.Debug(logger.WithStage(ctx, logger.LogStages.TrackingSetup),
			"Generated tracking IDs",
			"request_id_source", sources.RequestIDSource,
			"correlation_id_source", sources.CorrelationIDSource,
		)

		start := time.Now()
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r.WithContext(ctx))
		duration := time.Since(start)

		// Health probes are only logged when they fail.
		if r.URL.Path == "/health" && wrapper.statusCode < 400 {
			return
		}

		logRequest(ctx, r, wrapper, duration)
	})
}

// extractTrackingIDs applies the priority cascade: client header, CloudFlare ray, generated
func extractTrackingIDs(r *http.Request) (requestID, correlationID string, sources TrackingIDSources) {
	if clientRequestID := r.Header.Get(utils.HeaderRequestID); clientRequestID != "" {
		requestID = clientRequestID
		sources.RequestIDSource = "client-x-request-id"
	} else if cfRay := r.Header.Get(utils.HeaderCloudFlareRay); cfRay != "" {
		requestID = cfRay
		sources.RequestIDSource = "cloudflare-ray"
	} else {
		requestID = utils.GenerateRequestID()
		sources.RequestIDSource = "generated-uuid"
	}

	if clientCorrelationID := r.Header.Get(utils.HeaderCorrelationID); clientCorrelationID != "" {
		correlationID = clientCorrelationID
		sources.CorrelationIDSource = "client-x-correlation-id"
	} else {
		correlationID = requestID
		sources.CorrelationIDSource = "request-id-fallback"
	}

	return requestID, correlationID, sources
}

func logRequest(ctx context.Context, r *http.Request, w *responseWriterWrapper, duration time.Duration) {
	requestData := map[string]interface{}{
		"method":         r.Method,
		"endpoint":       r.URL.Path,
		"content_type":   r.Header.Get(utils.HeaderContentType),
		"content_length": r.ContentLength,
		"user_agent":     r.Header.Get(utils.HeaderUserAgent),
		"client_ip":      getClientIP(r),
		"headers":        utils.SanitizeHeaders(r.Header),
	}
	responseData := map[string]interface{}{
		"status_code":   w.statusCode,
		"duration_ms":   duration.Milliseconds(),
		"bytes_written": w.bytesWritten,
		"content_type":  w.Header().Get(utils.HeaderContentType),
	}

	ctx = logger.WithStage(ctx, logger.LogStages.Response)
	if w.statusCode >= 500 {
		logger.Warn(ctx, "Request failed", "request", requestData, "response", responseData)
		return
	}
	logger.Info(ctx, "Request completed", "request", requestData, "response", responseData)
}

// getClientIP extracts client IP with priority cascade
func getClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get(utils.HeaderXForwardedFor); forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if realIP := r.Header.Get(utils.HeaderXRealIP); realIP != "" {
		return realIP
	}
	if cfIP := r.Header.Get(utils.HeaderCFConnectingIP); cfIP != "" {
		return cfIP
	}
	return r.RemoteAddr
}

// responseWriterWrapper records the status and size while writing through
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode    int
	bytesWritten  int64
	headerWritten bool
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}
	w.statusCode = statusCode
	w.headerWritten = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(data []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(data)
	w.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher interface for streaming support
func (w *responseWriterWrapper) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *responseWriterWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
