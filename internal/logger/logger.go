package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger levels
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Context keys
type contextKey string

const (
	RequestIDKey     contextKey = "request_id"
	CorrelationIDKey contextKey = "correlation_id"
	ComponentKey     contextKey = "component"
	StageKey         contextKey = "stage"
	ProviderKey      contextKey = "provider"
)

// Global logger instance
var Logger *slog.Logger

// Service configuration
var (
	ServiceName = "eduverse-backend"
	Environment = "development"
)

// Configuration for logger
type Config struct {
	Level       slog.Level
	Format      string // "json" or "text"
	Output      string // "stdout", "stderr", or file path
	TimeFormat  string
	ServiceName string
	Environment string
}

// Default configuration
var DefaultConfig = Config{
	Level:       LevelInfo,
	Format:      "json",
	Output:      "stdout",
	TimeFormat:  time.RFC3339,
	ServiceName: "eduverse-backend",
	Environment: "development",
}

// StructuredLogEntry is the JSON shape of every log line
type StructuredLogEntry struct {
	Timestamp   string                 `json:"timestamp"`
	Level       string                 `json:"level"`
	Message     string                 `json:"message"`
	Service     string                 `json:"service"`
	Environment string                 `json:"environment"`
	Component   string                 `json:"component,omitempty"`
	Stage       string                 `json:"stage,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	Request     map[string]interface{} `json:"request,omitempty"`
	Response    map[string]interface{} `json:"response,omitempty"`
	Error       map[string]interface{} `json:"error,omitempty"`
}

// Init initializes the global logger
func Init(config Config) error {
	var output io.Writer

	ServiceName = config.ServiceName
	Environment = config.Environment

	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", config.Output, err)
		}
		output = f
	}

	Logger = slog.New(NewHandler(output, config))
	return nil
}

// NewHandler builds the slog handler for the configured format
func NewHandler(w io.Writer, config Config) slog.Handler {
	if config.Format == "json" || config.Format == "" {
		timeFormat := config.TimeFormat
		if timeFormat == "" {
			timeFormat = time.RFC3339
		}
		return &StructuredJSONHandler{
			writer:      w,
			mu:          &sync.Mutex{},
			level:       config.Level,
			timeFormat:  timeFormat,
			serviceName: config.ServiceName,
			environment: config.Environment,
		}
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.Level})
}

// StructuredJSONHandler implements a custom JSON handler for our structured format
type StructuredJSONHandler struct {
	writer      io.Writer
	mu          *sync.Mutex
	level       slog.Level
	timeFormat  string
	serviceName string
	environment string
	attrs       []slog.Attr
}

func (h *StructuredJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *StructuredJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *StructuredJSONHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *StructuredJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := StructuredLogEntry{
		Timestamp:   r.Time.Format(h.timeFormat),
		Level:       r.Level.String(),
		Message:     r.Message,
		Service:     h.serviceName,
		Environment: h.environment,
		Attributes:  make(map[string]interface{}),
		Request:     make(map[string]interface{}),
		Response:    make(map[string]interface{}),
		Error:       make(map[string]interface{}),
	}

	if ctx != nil {
		if v, ok := ctx.Value(RequestIDKey).(string); ok {
			entry.Request["request_id"] = v
		}
		if v, ok := ctx.Value(CorrelationIDKey).(string); ok {
			entry.Request["correlation_id"] = v
		}
		if v, ok := ctx.Value(ComponentKey).(string); ok {
			entry.Component = v
		}
		if v, ok := ctx.Value(StageKey).(string); ok {
			entry.Stage = v
		}
		if v, ok := ctx.Value(ProviderKey).(string); ok {
			entry.Attributes["provider"] = v
		}
	}

	route := func(a slog.Attr) bool {
		key := a.Key
		value := a.Value.Any()

		switch {
		case strings.HasPrefix(key, "request_"):
			entry.Request[strings.TrimPrefix(key, "request_")] = value
		case strings.HasPrefix(key, "response_"):
			entry.Response[strings.TrimPrefix(key, "response_")] = value
		case strings.HasPrefix(key, "error_"):
			entry.Error[strings.TrimPrefix(key, "error_")] = value
		case key == "error":
			if err, ok := value.(error); ok {
				entry.Error["message"] = err.Error()
				entry.Error["type"] = fmt.Sprintf("%T", err)
			} else {
				entry.Error["message"] = fmt.Sprintf("%v", value)
			}
		case key == "component":
			entry.Component = fmt.Sprintf("%v", value)
		case key == "stage":
			entry.Stage = fmt.Sprintf("%v", value)
		default:
			entry.Attributes[key] = value
		}
		return true
	}
	for _, a := range h.attrs {
		route(a)
	}
	r.Attrs(route)

	if len(entry.Attributes) == 0 {
		entry.Attributes = nil
	}
	if len(entry.Request) == 0 {
		entry.Request = nil
	}
	if len(entry.Response) == 0 {
		entry.Response = nil
	}
	if len(entry.Error) == 0 {
		entry.Error = nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = fmt.Fprintln(h.writer, string(data))
	return err
}

// get returns the global logger, initializing the default one on first use
func get() *slog.Logger {
	if Logger == nil {
		if err := Init(DefaultConfig); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize default logger: %v\n", err)
			return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelDebug}))
		}
	}
	return Logger
}

// WithComponent returns a context tagged with the component name
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, ComponentKey, component)
}

// WithStage returns a context tagged with the processing stage
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// WithProvider returns a context tagged with the upstream provider
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, ProviderKey, provider)
}

// WithRequestID returns a context carrying the request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestIDFrom extracts the request id, if any
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func Debug(ctx context.Context, msg string, args ...any) {
	get().DebugContext(ctx, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	get().InfoContext(ctx, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	get().WarnContext(ctx, msg, args...)
}

// Error logs at error level; err is recorded under the error section
func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err)
	}
	get().ErrorContext(ctx, msg, args...)
}

// InitFromEnv initializes the logger from LOG_* and service environment variables
func InitFromEnv() error {
	config := DefaultConfig

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Level = ParseLevel(level)
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.Format = format
	}

	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		config.Output = output
	}

	if serviceName := os.Getenv("SERVICE_NAME"); serviceName != "" {
		config.ServiceName = serviceName
	}

	if environment := os.Getenv("ENVIRONMENT"); environment != "" {
		config.Environment = environment
	} else if env := os.Getenv("ENV"); env != "" {
		config.Environment = env
	}

	return Init(config)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}
