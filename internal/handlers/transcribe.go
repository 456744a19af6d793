package handlers

import (
	"net/http"

	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
)

// TranscribeHandler handles the transcription endpoint
// @Summary      Transcribe audio
// @Description  Converts an uploaded audio file to text with OpenAI or Groq Whisper
// @Tags         audio
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Audio file"
// @Param        provider  query     string  false  "groq (default) or openai"
// @Success      200       {object}  TranscriptionResponse
// @Failure      400       {object}  ErrorResponse  "Missing file or unknown provider"
// @Failure      413       {object}  ErrorResponse  "Upload too large"
// @Failure      500       {object}  ErrorResponse  "Provider failure"
// @Router       /transcribe [post]
func (h *APIHandlers) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)

	if apiErr, status := parseMultipart(w, r, h.Limits.MaxAudioBytes+formOverhead); apiErr != nil {
		errors.HandleErrorCtx(ctx, w, apiErr, status)
		return
	}

	name := formValue(r, "provider")
	if name == "" {
		name = string(providers.Groq)
	}
	provider, err := providers.ParseName(name)
	if err != nil {
		errors.HandleErrorCtx(ctx, w, errors.NewInvalidProviderError(err.Error()), http.StatusBadRequest)
		return
	}

	file, err := formFile(r, "file")
	if err != nil {
		errors.HandleErrorCtx(ctx, w, errors.NewValidationError(err.Error()), http.StatusBadRequest)
		return
	}
	if file == nil {
		errors.HandleErrorCtx(ctx, w, errors.NewMissingInputError("file"), http.StatusBadRequest)
		return
	}

	ctx = logger.WithProvider(ctx, string(provider))
	logger.Info(ctx, "Transcription request received",
		"filename", file.Filename,
		"size_bytes", len(file.Data))

	transcript, err := h.Providers.Transcribe(ctx, providers.Audio{Data: file.Data, Filename: file.Filename}, provider)
	if err != nil {
		handleProviderError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, TranscriptionResponse{Transcript: transcript})
}
