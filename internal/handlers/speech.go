package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
	"github.com/aashari/go-eduverse-backend/internal/utils"
)

const streamChunkSize = 32 * 1024

// GenerateSpeechHandler handles the text to speech endpoint
// @Summary      Generate speech
// @Description  Synthesizes mp3 audio for the input text and streams it back
// @Tags         audio
// @Accept       json
// @Produce      audio/mpeg
// @Param        request  body      SpeechRequest  true  "Text, voice and streaming flag"
// @Success      200      {file}    binary         "mp3 audio"
// @Failure      400      {object}  ErrorResponse  "Missing input"
// @Failure      500      {object}  ErrorResponse  "Provider failure"
// @Router       /generate_speech [post]
func (h *APIHandlers) GenerateSpeechHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)

	var req SpeechRequest
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

	logger.Info(ctx, "Speech request received",
		"input_length", len(req.Input),
		"voice_id", req.VoiceID,
		"stream", req.Stream)

	speech, err := h.Providers.SynthesizeSpeech(ctx, req.Input, req.VoiceID, req.Stream)
	if err != nil {
		handleProviderError(ctx, w, err)
		return
	}

	streamAudio(ctx, w, speech)
}

// streamAudio forwards speech chunks to the client as they arrive and closes the body
func streamAudio(ctx context.Context, w http.ResponseWriter, speech *providers.Speech) {
	defer speech.Body.Close()
	ctx = logger.WithStage(ctx, logger.LogStages.StreamStart)

	contentType := speech.ContentType
	if contentType == "" {
		contentType = utils.ContentTypeAudioMPEG
	}
	w.Header().Set(utils.HeaderContentType, contentType)
	w.Header().Set(utils.HeaderCacheControl, utils.CacheControlNoCache)
	w.Header().Set(utils.HeaderXContentTypeOptions, utils.XContentTypeOptionsNoSniff)
	w.Header().Set(utils.HeaderXAccelBuffering, utils.XAccelBufferingNo)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, streamChunkSize)
	var written int64
	chunks := 0

	for {
		n, readErr := speech.Body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				logger.Warn(logger.WithStage(ctx, logger.LogStages.StreamFailed), "Client went away during audio stream",
					"bytes_written", written,
					"error", err.Error())
				return
			}
			written += int64(n)
			chunks++
			if flusher != nil {
				flusher.Flush()
			}
		}
		if stderrors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			// Headers are already sent; the client sees a truncated body.
			logger.Error(logger.WithStage(ctx, logger.LogStages.StreamFailed), "Audio stream interrupted", readErr,
				"bytes_written", written)
			return
		}
	}

	logger.Debug(logger.WithStage(ctx, logger.LogStages.StreamCompleted), "Audio stream completed",
		"bytes_written", written,
		"chunks", chunks)
}
