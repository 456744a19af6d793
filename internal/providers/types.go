// Package providers adapts third-party AI APIs (chat completion, speech to
// text, text to speech, image question answering) behind one contract.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Name identifies an OpenAI-compatible chat/transcription provider
type Name string

const (
	OpenAI Name = "openai"
	Groq   Name = "groq"
)

// ErrInvalidProvider is returned for provider tags other than openai and groq
var ErrInvalidProvider = errors.New("invalid provider")

// ParseName validates a provider tag. Tags are matched exactly; there is no
// fallback for unknown or differently cased tags.
func ParseName(value string) (Name, error) {
	switch Name(value) {
	case OpenAI:
		return OpenAI, nil
	case Groq:
		return Groq, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidProvider, value)
	}
}

// GenerationParams carries optional sampling settings. Nil fields are not sent
// upstream so the provider default applies.
type GenerationParams struct {
	MaxTokens   *int
	Temperature *float32
	TopP        *float32
}

// LogValue logs only the supplied parameters
func (p GenerationParams) LogValue() slog.Value {
	var attrs []slog.Attr
	if p.MaxTokens != nil {
		attrs = append(attrs, slog.Int("max_tokens", *p.MaxTokens))
	}
	if p.Temperature != nil {
		attrs = append(attrs, slog.Float64("temperature", float64(*p.Temperature)))
	}
	if p.TopP != nil {
		attrs = append(attrs, slog.Float64("top_p", float64(*p.TopP)))
	}
	return slog.GroupValue(attrs...)
}

// Audio is an uploaded audio file
type Audio struct {
	Data     []byte
	Filename string
}

// Image is an uploaded image
type Image struct {
	Data        []byte
	ContentType string
}

// Speech is a synthesized audio stream. The caller must close Body.
type Speech struct {
	Body        io.ReadCloser
	ContentType string
}

// Operation names used in UpstreamError and logs
const (
	OperationChat          = "chat"
	OperationTranscription = "transcription"
	OperationSpeech        = "speech"
	OperationVision        = "vision"
)

// UpstreamError is the single error shape for failed provider calls
type UpstreamError struct {
	Provider   string
	Operation  string
	Message    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.Provider, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Provider, e.Operation, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ChatCompleter completes a single user prompt
type ChatCompleter interface {
	CompleteChat(ctx context.Context, prompt string, provider Name, params GenerationParams) (string, error)
}

// Transcriber converts audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio, provider Name) (string, error)
}

// SpeechSynthesizer converts text into an audio stream
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, text, voiceID string, streaming bool) (*Speech, error)
}

// ImageDescriber answers a prompt about an image
type ImageDescriber interface {
	DescribeImage(ctx context.Context, image Image, prompt string, params GenerationParams) (string, error)
}

// Adapter is the full provider contract consumed by handlers and the agent flow
type Adapter interface {
	ChatCompleter
	Transcriber
	SpeechSynthesizer
	ImageDescriber
}
