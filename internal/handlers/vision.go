package handlers

import (
	"net/http"
	"strings"

	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/providers"
)

// ImageToTextHandler handles the image question endpoint
// @Summary      Ask about an image
// @Description  Answers a prompt about an uploaded image with the OpenAI vision model
// @Tags         vision
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Image file"
// @Param        prompt       formData  string  true   "Question about the image"
// @Param        max_tokens   formData  int     false  "Maximum tokens in the answer"
// @Param        temperature  formData  number  false  "Sampling temperature"
// @Param        top_p        formData  number  false  "Nucleus sampling"
// @Success      200          {object}  ChatResponse
// @Failure      400          {object}  ErrorResponse  "Missing file or prompt"
// @Failure      413          {object}  ErrorResponse  "Upload too large"
// @Failure      500          {object}  ErrorResponse  "Provider failure"
// @Router       /image-to-text [post]
func (h *APIHandlers) ImageToTextHandler(w http.ResponseWriter, r *http.Request) {
	ctx := handlerContext(r, logger.LogStages.Request)

	if apiErr, status := parseMultipart(w, r, h.Limits.MaxImageBytes+formOverhead); apiErr != nil {
		errors.HandleErrorCtx(ctx, w, apiErr, status)
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
	if !strings.HasPrefix(file.ContentType, "image/") {
		apiErr := errors.NewValidationError("Field 'file' must be an image, got " + file.ContentType)
		apiErr.Code = errors.CodeInvalidInput
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusUnsupportedMediaType)
		return
	}

	prompt := strings.TrimSpace(formValue(r, "prompt"))
	if apiErr := errors.ValidateRequired(prompt, "prompt"); apiErr != nil {
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusBadRequest)
		return
	}

	var params providers.GenerationParams
	var apiErr *errors.APIError
	if params.MaxTokens, apiErr = optionalInt(r, "max_tokens"); apiErr == nil {
		if params.Temperature, apiErr = optionalFloat(r, "temperature"); apiErr == nil {
			params.TopP, apiErr = optionalFloat(r, "top_p")
		}
	}
	if apiErr != nil {
		errors.HandleErrorCtx(ctx, w, apiErr, http.StatusBadRequest)
		return
	}

	ctx = logger.WithProvider(ctx, string(providers.OpenAI))
	logger.Info(ctx, "Image question received",
		"content_type", file.ContentType,
		"size_bytes", len(file.Data),
		"prompt_length", len(prompt))

	answer, err := h.Providers.DescribeImage(ctx, providers.Image{Data: file.Data, ContentType: file.ContentType}, prompt, params)
	if err != nil {
		handleProviderError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ChatResponse{Response: answer})
}
