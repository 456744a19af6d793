package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

const (
	elevenLabsProvider = "elevenlabs"
	audioMPEG          = "audio/mpeg"
)

// ElevenLabsClient synthesizes speech through the ElevenLabs REST API
type ElevenLabsClient struct {
	httpClient *http.Client
	cfg        config.ElevenLabsConfig
}

// NewElevenLabsClient creates an ElevenLabs text-to-speech client
func NewElevenLabsClient(cfg config.ElevenLabsConfig, httpClient *http.Client) *ElevenLabsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ElevenLabsClient{httpClient: httpClient, cfg: cfg}
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize returns the mp3 body as it arrives. An empty voiceID selects the
// configured default voice; streaming uses the chunked /stream endpoint.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string, streaming bool) (*Speech, error) {
	ctx = logger.WithProvider(logger.WithComponent(ctx, logger.ComponentNames.Providers), elevenLabsProvider)
	if c.cfg.APIKey == "" {
		return nil, &UpstreamError{
			Provider:  elevenLabsProvider,
			Operation: OperationSpeech,
			Message:   "elevenlabs API key is not configured",
		}
	}

	if voiceID == "" {
		voiceID = c.cfg.DefaultVoiceID
	}

	endpoint := c.endpoint(voiceID, streaming)
	payload, err := json.Marshal(elevenLabsRequest{Text: text, ModelID: c.cfg.ModelID})
	if err != nil {
		return nil, &UpstreamError{Provider: elevenLabsProvider, Operation: OperationSpeech, Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Provider: elevenLabsProvider, Operation: OperationSpeech, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", audioMPEG)
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	start := time.Now()
	logger.Debug(logger.WithStage(ctx, logger.LogStages.ProviderRequest), "Sending speech synthesis request",
		"voice_id", voiceID,
		"model_id", c.cfg.ModelID,
		"streaming", streaming,
		"text_length", len(text))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(logger.WithStage(ctx, logger.LogStages.ProviderError), "Speech synthesis request failed", err)
		return nil, &UpstreamError{Provider: elevenLabsProvider, Operation: OperationSpeech, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		upstream := &UpstreamError{
			Provider:   elevenLabsProvider,
			Operation:  OperationSpeech,
			Message:    elevenLabsErrorMessage(body, resp.Status),
			StatusCode: resp.StatusCode,
		}
		logger.Error(logger.WithStage(ctx, logger.LogStages.ProviderError), "Speech synthesis rejected", upstream,
			"upstream_status", resp.StatusCode)
		return nil, upstream
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = audioMPEG
	}

	logger.Info(logger.WithStage(ctx, logger.LogStages.ProviderResponse), "Speech synthesis stream opened",
		"voice_id", voiceID,
		"streaming", streaming,
		"duration_ms", time.Since(start).Milliseconds())
	return &Speech{Body: resp.Body, ContentType: contentType}, nil
}

func (c *ElevenLabsClient) endpoint(voiceID string, streaming bool) string {
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(voiceID))
	if streaming {
		endpoint += "/stream"
	}
	if c.cfg.OutputFormat != "" {
		endpoint += "?output_format=" + url.QueryEscape(c.cfg.OutputFormat)
	}
	return endpoint
}

// elevenLabsErrorMessage extracts detail.message (or a plain detail string)
func elevenLabsErrorMessage(body []byte, fallback string) string {
	var structured struct {
		Detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"detail"`
	}
	if json.Unmarshal(body, &structured) == nil && structured.Detail.Message != "" {
		return structured.Detail.Message
	}

	var plain struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &plain) == nil && plain.Detail != "" {
		return plain.Detail
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}
