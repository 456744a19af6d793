package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// OpenAISpeechClient synthesizes speech through the OpenAI audio/speech endpoint.
// The endpoint always streams, so the streaming flag has no effect.
type OpenAISpeechClient struct {
	client       *openai.Client
	hasKey       bool
	model        string
	defaultVoice string
}

// NewOpenAISpeechClient creates an OpenAI text-to-speech client
func NewOpenAISpeechClient(provider config.ProviderConfig, speech config.SpeechConfig, httpClient *http.Client) *OpenAISpeechClient {
	clientConfig := openai.DefaultConfig(provider.APIKey)
	if provider.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(provider.BaseURL, "/")
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &OpenAISpeechClient{
		client:       openai.NewClientWithConfig(clientConfig),
		hasKey:       provider.APIKey != "",
		model:        speech.OpenAIModel,
		defaultVoice: speech.OpenAIVoice,
	}
}

// Synthesize returns the mp3 response body. voiceID is an OpenAI voice name.
func (c *OpenAISpeechClient) Synthesize(ctx context.Context, text, voiceID string, _ bool) (*Speech, error) {
	ctx = logger.WithProvider(logger.WithComponent(ctx, logger.ComponentNames.Providers), string(OpenAI))
	if !c.hasKey {
		return nil, &UpstreamError{
			Provider:  string(OpenAI),
			Operation: OperationSpeech,
			Message:   fmt.Sprintf("%s API key is not configured", OpenAI),
		}
	}

	if voiceID == "" {
		voiceID = c.defaultVoice
	}

	start := time.Now()
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.model),
		Input:          text,
		Voice:          openai.SpeechVoice(voiceID),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		upstream := wrapOpenAIError(OpenAI, OperationSpeech, err)
		logger.Error(logger.WithStage(ctx, logger.LogStages.ProviderError), "Speech synthesis failed", err,
			"upstream_status", upstream.StatusCode)
		return nil, upstream
	}

	logger.Info(logger.WithStage(ctx, logger.LogStages.ProviderResponse), "Speech synthesis stream opened",
		"voice_id", voiceID,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds())
	return &Speech{Body: resp, ContentType: audioMPEG}, nil
}
