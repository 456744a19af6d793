package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

const systemPrompt = "You are a helpful assistant."

// CompatibleClient talks to one OpenAI-compatible API (OpenAI itself or Groq)
type CompatibleClient struct {
	name               Name
	client             *openai.Client
	httpClient         *http.Client
	baseURL            string
	apiKey             string
	chatModel          string
	transcriptionModel string
	visionModel        string
}

// NewCompatibleClient builds a client for the given provider settings
func NewCompatibleClient(name Name, cfg config.ProviderConfig, httpClient *http.Client) *CompatibleClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	clientConfig.HTTPClient = httpClient

	return &CompatibleClient{
		name:               name,
		client:             openai.NewClientWithConfig(clientConfig),
		httpClient:         httpClient,
		baseURL:            clientConfig.BaseURL,
		apiKey:             cfg.APIKey,
		chatModel:          cfg.ChatModel,
		transcriptionModel: cfg.TranscriptionModel,
		visionModel:        cfg.VisionModel,
	}
}

// Name returns the provider tag
func (c *CompatibleClient) Name() Name {
	return c.name
}

// Chat sends the prompt after the fixed system message and returns the first choice
func (c *CompatibleClient) Chat(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	return c.complete(ctx, OperationChat, c.chatModel, messages, params)
}

// Describe sends the image as a base64 data URL together with the prompt
func (c *CompatibleClient) Describe(ctx context.Context, image Image, prompt string, params GenerationParams) (string, error) {
	if c.visionModel == "" {
		return "", &UpstreamError{
			Provider:  string(c.name),
			Operation: OperationVision,
			Message:   "no vision model configured",
		}
	}

	contentType := image.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image.Data))

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	}
	return c.complete(ctx, OperationVision, c.visionModel, messages, params)
}

// Transcribe uploads the audio to the provider's whisper endpoint
func (c *CompatibleClient) Transcribe(ctx context.Context, audio Audio) (string, error) {
	ctx = c.logContext(ctx)
	if c.apiKey == "" {
		return "", c.missingKey(OperationTranscription)
	}

	filename := audio.Filename
	if filename == "" {
		filename = "audio.mp3"
	}

	start := time.Now()
	logger.Debug(logger.WithStage(ctx, logger.LogStages.ProviderRequest), "Sending transcription request",
		"model", c.transcriptionModel,
		"audio_bytes", len(audio.Data))

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio.Data),
	})
	if err != nil {
		return "", c.fail(ctx, OperationTranscription, err, start)
	}

	logger.Info(logger.WithStage(ctx, logger.LogStages.ProviderResponse), "Transcription completed",
		"model", c.transcriptionModel,
		"duration_ms", time.Since(start).Milliseconds(),
		"transcript_length", len(resp.Text))
	return resp.Text, nil
}

func (c *CompatibleClient) complete(ctx context.Context, operation, model string, messages []openai.ChatCompletionMessage, params GenerationParams) (string, error) {
	ctx = c.logContext(ctx)
	if c.apiKey == "" {
		return "", c.missingKey(operation)
	}

	request := newChatCompletionRequest(model, messages, params)

	start := time.Now()
	logger.Debug(logger.WithStage(ctx, logger.LogStages.ProviderRequest), "Sending chat completion request",
		"operation", operation,
		"model", model,
		"params", params)

	resp, err := c.createChatCompletion(ctx, request)
	if err != nil {
		return "", c.fail(ctx, operation, err, start)
	}
	if len(resp.Choices) == 0 {
		return "", c.fail(ctx, operation, errors.New("response contained no choices"), start)
	}

	content := resp.Choices[0].Message.Content
	logger.Info(logger.WithStage(ctx, logger.LogStages.ProviderResponse), "Chat completion received",
		"operation", operation,
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", string(resp.Choices[0].FinishReason))
	return content, nil
}

// chatCompletionRequest shadows the sampling fields of the SDK request with
// pointers so an explicit zero is still sent upstream.
type chatCompletionRequest struct {
	openai.ChatCompletionRequest
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
}

func newChatCompletionRequest(model string, messages []openai.ChatCompletionMessage, params GenerationParams) chatCompletionRequest {
	return chatCompletionRequest{
		ChatCompletionRequest: openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
		},
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}
}

// createChatCompletion posts to /chat/completions. Failures come back as the
// same *openai.APIError or *openai.RequestError values the SDK returns.
func (c *CompatibleClient) createChatCompletion(ctx context.Context, request chatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var response openai.ChatCompletionResponse

	payload, err := json.Marshal(request)
	if err != nil {
		return response, fmt.Errorf("failed to encode chat completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return response, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return response, decodeErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return response, fmt.Errorf("failed to decode chat completion response: %w", err)
	}
	return response, nil
}

func decodeErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var errRes openai.ErrorResponse
	if err := json.Unmarshal(body, &errRes); err != nil || errRes.Error == nil {
		return &openai.RequestError{
			HTTPStatus:     resp.Status,
			HTTPStatusCode: resp.StatusCode,
			Err:            err,
			Body:           body,
		}
	}

	errRes.Error.HTTPStatus = resp.Status
	errRes.Error.HTTPStatusCode = resp.StatusCode
	return errRes.Error
}

func (c *CompatibleClient) logContext(ctx context.Context) context.Context {
	return logger.WithProvider(logger.WithComponent(ctx, logger.ComponentNames.Providers), string(c.name))
}

func (c *CompatibleClient) missingKey(operation string) error {
	return &UpstreamError{
		Provider:  string(c.name),
		Operation: operation,
		Message:   fmt.Sprintf("%s API key is not configured", c.name),
	}
}

func (c *CompatibleClient) fail(ctx context.Context, operation string, err error, start time.Time) error {
	upstream := wrapOpenAIError(c.name, operation, err)
	logger.Error(logger.WithStage(ctx, logger.LogStages.ProviderError), "Provider call failed", err,
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds(),
		"upstream_status", upstream.StatusCode)
	return upstream
}

// wrapOpenAIError converts go-openai failures into an UpstreamError
func wrapOpenAIError(name Name, operation string, err error) *UpstreamError {
	upstream := &UpstreamError{
		Provider:  string(name),
		Operation: operation,
		Message:   err.Error(),
		Err:       err,
	}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		upstream.Message = apiErr.Message
		upstream.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		upstream.StatusCode = reqErr.HTTPStatusCode
	}
	return upstream
}
