package providers

import (
	"context"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/httpclient"
)

type speechBackend interface {
	Synthesize(ctx context.Context, text, voiceID string, streaming bool) (*Speech, error)
}

// Service is the concrete Adapter. It is immutable after construction and
// safe for concurrent use.
type Service struct {
	compatible map[Name]*CompatibleClient
	vision     *CompatibleClient
	speech     speechBackend
}

// NewService constructs provider clients from configuration
func NewService(cfg *config.Config, factory *httpclient.Factory) *Service {
	openaiClient := NewCompatibleClient(OpenAI, cfg.Providers.OpenAI,
		factory.CreateClient(httpclient.Options{Timeout: cfg.Providers.OpenAI.Timeout}))
	groqClient := NewCompatibleClient(Groq, cfg.Providers.Groq,
		factory.CreateClient(httpclient.Options{Timeout: cfg.Providers.Groq.Timeout}))

	speechHTTP := factory.CreateClient(httpclient.Options{Timeout: cfg.Speech.Timeout})
	var speech speechBackend
	switch cfg.Speech.Provider {
	case string(OpenAI):
		speech = NewOpenAISpeechClient(cfg.Providers.OpenAI, cfg.Speech, speechHTTP)
	default:
		speech = NewElevenLabsClient(cfg.Speech.ElevenLabs, speechHTTP)
	}

	return newService(openaiClient, groqClient, speech)
}

func newService(openaiClient, groqClient *CompatibleClient, speech speechBackend) *Service {
	return &Service{
		compatible: map[Name]*CompatibleClient{
			OpenAI: openaiClient,
			Groq:   groqClient,
		},
		vision: openaiClient,
		speech: speech,
	}
}

func (s *Service) client(provider Name) (*CompatibleClient, error) {
	name, err := ParseName(string(provider))
	if err != nil {
		return nil, err
	}
	return s.compatible[name], nil
}

// CompleteChat routes the prompt to the chosen provider
func (s *Service) CompleteChat(ctx context.Context, prompt string, provider Name, params GenerationParams) (string, error) {
	client, err := s.client(provider)
	if err != nil {
		return "", err
	}
	return client.Chat(ctx, prompt, params)
}

// Transcribe routes the audio to the chosen provider
func (s *Service) Transcribe(ctx context.Context, audio Audio, provider Name) (string, error) {
	client, err := s.client(provider)
	if err != nil {
		return "", err
	}
	return client.Transcribe(ctx, audio)
}

// SynthesizeSpeech uses the configured speech backend
func (s *Service) SynthesizeSpeech(ctx context.Context, text, voiceID string, streaming bool) (*Speech, error) {
	return s.speech.Synthesize(ctx, text, voiceID, streaming)
}

// DescribeImage asks the vision model about the image
func (s *Service) DescribeImage(ctx context.Context, image Image, prompt string, params GenerationParams) (string, error) {
	return s.vision.Describe(ctx, image, prompt, params)
}
