// Package handlers implements the HTTP endpoints of the eduverse backend.
package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aashari/go-eduverse-backend/internal/agentflow"
	"github.com/aashari/go-eduverse-backend/internal/database"
	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
	"github.com/aashari/go-eduverse-backend/internal/utils"
)

const (
	defaultMaxAudioBytes = 25 << 20
	defaultMaxImageBytes = 20 << 20
	// formOverhead covers text fields and multipart framing around the files
	formOverhead = 1 << 20
)

// AgentFlowRunner runs the agent flow pipeline
type AgentFlowRunner interface {
	Run(ctx context.Context, in agentflow.Input) (*agentflow.Result, error)
}

// FlowRecorder counts agent flow outcomes
type FlowRecorder interface {
	RecordAgentFlow(branch, failedStage string)
}

// Limits bounds upload sizes
type Limits struct {
	MaxAudioBytes int64
	MaxImageBytes int64
}

// TraceReader reads stored agent flow traces
type TraceReader interface {
	GetTraceByRequestID(ctx context.Context, requestID string) (*database.TraceDocument, error)
	RecentTraces(ctx context.Context, limit int64) ([]database.TraceDocument, error)
}

// APIHandlers contains the dependencies needed for API handlers. Traces is
// nil when no trace store is configured.
type APIHandlers struct {
	Providers providers.Adapter
	AgentFlow AgentFlowRunner
	Recorder  FlowRecorder
	Traces    TraceReader
	Limits    Limits

	validate *validator.Validate
}

// NewAPIHandlers creates a new APIHandlers instance
func NewAPIHandlers(adapter providers.Adapter, flow AgentFlowRunner, recorder FlowRecorder, limits Limits) *APIHandlers {
	if limits.MaxAudioBytes <= 0 {
		limits.MaxAudioBytes = defaultMaxAudioBytes
	}
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = defaultMaxImageBytes
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &APIHandlers{
		Providers: adapter,
		AgentFlow: flow,
		Recorder:  recorder,
		Limits:    limits,
		validate:  validate,
	}
}

func handlerContext(r *http.Request, stage string) context.Context {
	ctx := logger.WithComponent(r.Context(), logger.ComponentNames.Handlers)
	return logger.WithStage(ctx, stage)
}

// validateStruct turns the first validator failure into an APIError
func (h *APIHandlers) validateStruct(v interface{}) *errors.APIError {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.NewValidationError(err.Error())
	}

	fe := validationErrors[0]
	if fe.Tag() == "required" {
		return errors.NewMissingInputError(fe.Field())
	}
	apiErr := errors.NewValidationError("Field '" + fe.Field() + "' is out of range")
	apiErr.Code = errors.CodeInvalidInput
	return apiErr
}

// handleProviderError maps adapter and pipeline failures onto the error envelope
func handleProviderError(ctx context.Context, w http.ResponseWriter, err error) {
	var missing *agentflow.MissingInputError
	var upstream *providers.UpstreamError

	switch {
	case stderrors.As(err, &missing):
		errors.HandleErrorCtx(ctx, w, errors.NewMissingInputError(missing.Field), http.StatusBadRequest)
	case stderrors.Is(err, providers.ErrInvalidProvider):
		errors.HandleErrorCtx(ctx, w, errors.NewInvalidProviderError(err.Error()), http.StatusBadRequest)
	case stderrors.Is(err, context.DeadlineExceeded):
		apiErr := errors.NewUpstreamError(err.Error())
		apiErr.Code = errors.CodeTimeout
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusInternalServerError)
	case stderrors.As(err, &upstream):
		apiErr := errors.NewUpstreamError(err.Error())
		apiErr.Details = upstream.Provider
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusInternalServerError)
	default:
		errors.HandleErrorCtx(ctx, w, errors.NewInternalError(err.Error()), http.StatusInternalServerError)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(ctx, "Failed to write response", err)
	}
}
