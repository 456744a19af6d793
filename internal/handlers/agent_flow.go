package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/aashari/go-eduverse-backend/internal/agentflow"
	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
	"github.com/aashari/go-eduverse-backend/internal/utils"
)

// AgentFlowHandler handles the spoken image question endpoint
// @Summary      Spoken question about an image
// @Description  Transcribes the audio question, checks that it is a real question, answers it from the image and returns the answer as speech. Unclear questions get a spoken apology.
// @Tags         agent-flow
// @Accept       multipart/form-data
// @Produce      audio/mpeg
// @Param        image  formData  file  true  "Image the question is about"
// @Param        audio  formData  file  true  "Recorded question"
// @Success      200    {file}    binary         "mp3 audio"
// @Failure      400    {object}  ErrorResponse  "Missing image or audio"
// @Failure      413    {object}  ErrorResponse  "Upload too large"
// @Failure      500    {object}  ErrorResponse  "A pipeline stage failed"
// @Router       /agent-flow [post]
func (h *APIHandlers) AgentFlowHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)

	limit := h.Limits.MaxAudioBytes + h.Limits.MaxImageBytes + formOverhead
	if apiErr, status := parseMultipart(w, r, limit); apiErr != nil {
		errors.HandleErrorCtx(ctx, w, apiErr, status)
		return
	}

	var in agentflow.Input
	image, err := formFile(r, "image")
	if err != nil {
		errors.HandleErrorCtx(ctx, w, errors.NewValidationError(err.Error()), http.StatusBadRequest)
		return
	}
	if image != nil {
		in.Image = providers.Image{Data: image.Data, ContentType: image.ContentType}
	}

	audio, err := formFile(r, "audio")
	if err != nil {
		errors.HandleErrorCtx(ctx, w, errors.NewValidationError(err.Error()), http.StatusBadRequest)
		return
	}
	if audio != nil {
		in.Audio = providers.Audio{Data: audio.Data, Filename: audio.Filename}
	}

	result, err := h.AgentFlow.Run(ctx, in)
	if err != nil {
		var stageErr *agentflow.StageError
		if h.Recorder != nil && stderrors.As(err, &stageErr) {
			h.Recorder.RecordAgentFlow("", stageErr.Stage)
		}
		handleProviderError(ctx, w, err)
		return
	}

	if result.Trace != nil {
		if h.Recorder != nil {
			h.Recorder.RecordAgentFlow(string(result.Trace.Branch), "")
		}
		w.Header().Set(utils.HeaderAgentFlowBranch, string(result.Trace.Branch))
		w.Header().Set(utils.HeaderAgentFlowTraceID, result.Trace.ID)
	}

	streamAudio(ctx, w, result.Speech)
}
