package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/handlers"
	"github.com/aashari/go-eduverse-backend/internal/middleware"
	"github.com/aashari/go-eduverse-backend/internal/monitoring"

	// Registers the swagger document served under /swagger/
	_ "github.com/aashari/go-eduverse-backend/docs"
)

// Dependencies are the components the routes are built from
type Dependencies struct {
	Handlers *handlers.APIHandlers
	Health   http.HandlerFunc
	Metrics  *monitoring.Metrics
	CORS     config.CORSConfig
}

// SetupRoutes configures all routes for the application
func SetupRoutes(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("POST /chat", deps.Handlers.ChatHandler)
	mux.HandleFunc("POST /transcribe", deps.Handlers.TranscribeHandler)
	mux.HandleFunc("POST /generate_speech", deps.Handlers.GenerateSpeechHandler)
	mux.HandleFunc("POST /image-to-text", deps.Handlers.ImageToTextHandler)
	mux.HandleFunc("POST /agent-flow", deps.Handlers.AgentFlowHandler)
	mux.HandleFunc("GET /agent-flow/traces", deps.Handlers.RecentTracesHandler)
	mux.HandleFunc("GET /agent-flow/traces/{request_id}", deps.Handlers.TraceHandler)

	mux.HandleFunc("GET /health", deps.Health)
	mux.HandleFunc("GET /metrics", deps.Metrics.Handler)

	// Add pprof endpoints for performance profiling
	monitoring.SetupPprofRoutes(mux)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Correlation runs first so CORS rejections and metrics carry request ids
	var handler http.Handler = mux
	handler = deps.Metrics.Middleware(handler)
	handler = middleware.CORSMiddleware(deps.CORS)(handler)
	handler = middleware.RequestCorrelationMiddleware(handler)
	return handler
}
