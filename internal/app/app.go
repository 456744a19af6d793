package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aashari/go-eduverse-backend/internal/agentflow"
	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/database"
	"github.com/aashari/go-eduverse-backend/internal/handlers"
	"github.com/aashari/go-eduverse-backend/internal/health"
	"github.com/aashari/go-eduverse-backend/internal/httpclient"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/monitoring"
	"github.com/aashari/go-eduverse-backend/internal/providers"
	"github.com/aashari/go-eduverse-backend/internal/router"
)

// App centralizes the application's dependencies and configuration
type App struct {
	Config      *config.Config
	Providers   providers.Adapter
	AgentFlow   *agentflow.Pipeline
	Metrics     *monitoring.Metrics
	Health      *health.HealthChecker
	APIHandlers *handlers.APIHandlers

	db     *database.Connection
	traces *database.TraceRepository
	sink   *database.TraceSink
}

// NewApp creates a new App instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	ctx = logger.WithComponent(ctx, logger.ComponentNames.Server)
	ctx = logger.WithStage(ctx, logger.LogStages.Initialization)

	if missing := cfg.MissingKeys(); len(missing) > 0 {
		logger.Warn(ctx, "Provider API keys missing, affected endpoints will fail",
			"missing_keys", missing)
	}

	factory := httpclient.NewFactory(httpclient.Options{})
	resilient := providers.NewResilient(providers.NewService(cfg, factory), cfg.Resilience)

	a := &App{Config: cfg, Providers: resilient, Metrics: monitoring.NewMetrics()}
	a.Metrics.RegisterStats("circuit_breakers", resilient.BreakerStats)

	var opts []agentflow.Option
	if cfg.Diagnostics.MongoURI != "" {
		if err := a.connectTraceStore(ctx); err != nil {
			// Traces are diagnostics only; the API keeps serving without them.
			logger.Warn(ctx, "Agent flow trace store unavailable", "error", err.Error())
		} else {
			opts = append(opts, agentflow.WithTraceSink(a.sink))
		}
	}

	pipeline, err := newPipeline(resilient, cfg.AgentFlow, opts...)
	if err != nil {
		return nil, err
	}
	a.AgentFlow = pipeline

	a.Health = a.newHealthChecker(resilient.BreakerStats)
	a.APIHandlers = handlers.NewAPIHandlers(resilient, pipeline, a.Metrics, handlers.Limits{
		MaxAudioBytes: cfg.Server.MaxAudioBytes,
		MaxImageBytes: cfg.Server.MaxImageBytes,
	})
	if a.traces != nil {
		a.APIHandlers.Traces = a.traces
	}

	logger.Info(ctx, "Application initialized",
		"agent_flow_transcription_provider", cfg.AgentFlow.TranscriptionProvider,
		"agent_flow_chat_provider", cfg.AgentFlow.ChatProvider,
		"speech_provider", cfg.Speech.Provider,
		"max_attempts", cfg.Resilience.MaxAttempts,
		"breaker_enabled", cfg.Resilience.BreakerEnabled,
		"trace_store", a.sink != nil)

	return a, nil
}

func newPipeline(adapter providers.Adapter, cfg config.AgentFlowConfig, opts ...agentflow.Option) (*agentflow.Pipeline, error) {
	transcription, err := providers.ParseName(cfg.TranscriptionProvider)
	if err != nil {
		return nil, fmt.Errorf("agent flow transcription provider: %w", err)
	}
	chat, err := providers.ParseName(cfg.ChatProvider)
	if err != nil {
		return nil, fmt.Errorf("agent flow chat provider: %w", err)
	}

	return agentflow.NewPipeline(agentflow.FromAdapter(adapter), agentflow.Config{
		TranscriptionProvider: transcription,
		ChatProvider:          chat,
		VoiceID:               cfg.VoiceID,
		Streaming:             cfg.Streaming,
		Timeout:               cfg.Timeout,
	}, opts...), nil
}

func (a *App) connectTraceStore(ctx context.Context) error {
	dbConfig := database.NewDatabaseConfig(a.Config.Diagnostics, logger.ServiceName, logger.Environment)

	conn, err := database.Connect(ctx, dbConfig)
	if err != nil {
		return err
	}

	a.db = conn
	a.traces = database.NewTraceRepository(conn.Traces())
	a.sink = database.NewTraceSink(a.traces, logger.ServiceName, logger.Environment, dbConfig.Timeout)
	return nil
}

func (a *App) newHealthChecker(breakerStats func() map[string]interface{}) *health.HealthChecker {
	checker := health.NewHealthChecker(os.Getenv("VERSION"))
	checker.RegisterCheck(health.ApplicationCheck())
	checker.RegisterCheck(health.CredentialCheck("openai", "OPENAI_API_KEY", a.Config.Providers.OpenAI.APIKey != ""))
	checker.RegisterCheck(health.CredentialCheck("groq", "GROQ_API_KEY", a.Config.Providers.Groq.APIKey != ""))
	if a.Config.Speech.Provider == "elevenlabs" {
		checker.RegisterCheck(health.CredentialCheck("elevenlabs", "ELEVENLABS_API_KEY", a.Config.Speech.ElevenLabs.APIKey != ""))
	}
	if a.Config.Resilience.BreakerEnabled {
		checker.RegisterCheck(health.CircuitBreakerCheck(breakerStats))
	}
	if a.db != nil {
		checker.RegisterCheck(health.PingCheck("database", "MongoDB trace store", a.db.HealthCheck))
	}
	return checker
}

// SetupRoutes returns the fully wrapped HTTP handler
func (a *App) SetupRoutes() http.Handler {
	return router.SetupRoutes(router.Dependencies{
		Handlers: a.APIHandlers,
		Health:   a.Health.Handler,
		Metrics:  a.Metrics,
		CORS:     a.Config.Security.CORS,
	})
}

// Close flushes pending traces and disconnects from MongoDB
func (a *App) Close(ctx context.Context) error {
	ctx = logger.WithComponent(ctx, logger.ComponentNames.Server)
	ctx = logger.WithStage(ctx, logger.LogStages.Shutdown)

	if a.sink != nil {
		if err := a.sink.Close(ctx); err != nil {
			logger.Warn(ctx, "Pending traces not written before shutdown", "error", err.Error())
		}
	}
	if a.db != nil {
		if err := a.db.Disconnect(ctx); err != nil {
			return fmt.Errorf("disconnect trace store: %w", err)
		}
	}
	return nil
}
