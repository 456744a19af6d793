package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
)

// ChatHandler handles the chat endpoint
// @Summary      Chat completion
// @Description  Sends one prompt to OpenAI or Groq and returns the reply text
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      ChatRequest    true  "Prompt and optional sampling parameters"
// @Success      200      {object}  ChatResponse
// @Failure      400      {object}  ErrorResponse  "Missing prompt or unknown llm"
// @Failure      500      {object}  ErrorResponse  "Provider failure"
// @Router       /chat [post]
func (h *APIHandlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErr := errors.NewValidationError("Invalid JSON body: " + err.Error())
		apiErr.Code = errors.CodeInvalidInput
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusBadRequest)
		return
	}
	if apiErr := h.validateStruct(req); apiErr != nil {
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusBadRequest)
		return
	}

	llm := req.LLM
	if llm == "" {
		llm = string(providers.OpenAI)
	}
	provider, err := providers.ParseName(llm)
	if err != nil {
		errors.HandleErrorCtx(ctx, w, errors.NewInvalidProviderError("Invalid LLM"), http.StatusBadRequest)
		return
	}

	params := providers.GenerationParams{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	ctx = logger.WithProvider(ctx, string(provider))
	logger.Info(ctx, "Chat request received",
		"prompt_length", len(req.Prompt),
		"params", params)

	text, err := h.Providers.CompleteChat(ctx, req.Prompt, provider, params)
	if err != nil {
		handleProviderError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ChatResponse{Response: text})
}
