package handlers

import (
	"net/http"
	"strconv"

	"github.com/aashari/go-eduverse-backend/internal/database"
	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

const (
	defaultTraceLimit = 20
	maxTraceLimit     = 100
)

// TraceListResponse is the body of the recent traces endpoint
type TraceListResponse struct {
	Traces []database.TraceDocument `json:"traces"`
}

// RecentTracesHandler lists the newest stored agent flow traces
// @Summary      Recent agent flow traces
// @Description  Lists stored agent flow traces, newest first. Requires the MongoDB trace store.
// @Tags         diagnostics
// @Produce      json
// @Param        limit  query     int  false  "Number of traces (1-100, default 20)"
// @Success      200    {object}  TraceListResponse
// @Failure      400    {object}  ErrorResponse  "Invalid limit"
// @Failure      503    {object}  ErrorResponse  "Trace store not configured"
// @Router       /agent-flow/traces [get]
func (h *APIHandlers) RecentTracesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)
	if h.Traces == nil {
		errors.HandleErrorCtx(ctx, w, traceStoreMissing(), http.StatusServiceUnavailable)
		return
	}

	limit := int64(defaultTraceLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > maxTraceLimit {
			errors.HandleErrorCtx(ctx, w, errors.NewValidationError("Field 'limit' must be between 1 and 100"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	docs, err := h.Traces.RecentTraces(ctx, limit)
	if err != nil {
		logger.Error(ctx, "Failed to read agent flow traces", err)
		errors.HandleErrorCtx(ctx, w, errors.NewInternalError("Failed to read traces"), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []database.TraceDocument{}
	}

	writeJSON(ctx, w, http.StatusOK, TraceListResponse{Traces: docs})
}

// TraceHandler returns the stored trace of one agent flow request
// @Summary      Agent flow trace
// @Description  Returns the stored trace for an X-Request-ID. Requires the MongoDB trace store.
// @Tags         diagnostics
// @Produce      json
// @Param        request_id  path      string  true  "Request id of the agent flow call"
// @Success      200         {object}  database.TraceDocument
// @Failure      404         {object}  ErrorResponse  "No trace for the request id"
// @Failure      503         {object}  ErrorResponse  "Trace store not configured"
// @Router       /agent-flow/traces/{request_id} [get]
func (h *APIHandlers) TraceHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)
	if h.Traces == nil {
		errors.HandleErrorCtx(ctx, w, traceStoreMissing(), http.StatusServiceUnavailable)
		return
	}

	requestID := r.PathValue("request_id")
	doc, err := h.Traces.GetTraceByRequestID(ctx, requestID)
	if err != nil {
		logger.Error(ctx, "Failed to read agent flow trace", err, "trace_request_id", requestID)
		errors.HandleErrorCtx(ctx, w, errors.NewInternalError("Failed to read trace"), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		errors.HandleErrorCtx(ctx, w, errors.NewNotFoundError("No trace for request id "+requestID), http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, doc)
}

func traceStoreMissing() *errors.APIError {
	return errors.NewConfigurationError("Agent flow trace store is not configured; set MONGODB_URI")
}
