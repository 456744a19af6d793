package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server" mapstructure:"server"`
	Providers   ProvidersConfig   `json:"providers" yaml:"providers" mapstructure:"providers"`
	Speech      SpeechConfig      `json:"speech" yaml:"speech" mapstructure:"speech"`
	AgentFlow   AgentFlowConfig   `json:"agent_flow" yaml:"agent_flow" mapstructure:"agent_flow"`
	Resilience  ResilienceConfig  `json:"resilience" yaml:"resilience" mapstructure:"resilience"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging" mapstructure:"logging"`
	Security    SecurityConfig    `json:"security" yaml:"security" mapstructure:"security"`
	Diagnostics DiagnosticsConfig `json:"diagnostics" yaml:"diagnostics" mapstructure:"diagnostics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host            string        `json:"host" yaml:"host" mapstructure:"host"`
	Port            int           `json:"port" yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxAudioBytes   int64         `json:"max_audio_bytes" yaml:"max_audio_bytes" mapstructure:"max_audio_bytes" validate:"gt=0"`
	MaxImageBytes   int64         `json:"max_image_bytes" yaml:"max_image_bytes" mapstructure:"max_image_bytes" validate:"gt=0"`
}

// ProviderConfig describes one OpenAI-compatible provider
type ProviderConfig struct {
	APIKey             string        `json:"-" yaml:"api_key" mapstructure:"api_key"`
	BaseURL            string        `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	ChatModel          string        `json:"chat_model" yaml:"chat_model" mapstructure:"chat_model" validate:"required"`
	TranscriptionModel string        `json:"transcription_model" yaml:"transcription_model" mapstructure:"transcription_model" validate:"required"`
	VisionModel        string        `json:"vision_model,omitempty" yaml:"vision_model" mapstructure:"vision_model"`
	Timeout            time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// ProvidersConfig holds the chat/transcription providers
type ProvidersConfig struct {
	OpenAI ProviderConfig `json:"openai" yaml:"openai" mapstructure:"openai"`
	Groq   ProviderConfig `json:"groq" yaml:"groq" mapstructure:"groq"`
}

// ElevenLabsConfig holds ElevenLabs text-to-speech settings
type ElevenLabsConfig struct {
	APIKey         string `json:"-" yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	ModelID        string `json:"model_id" yaml:"model_id" mapstructure:"model_id" validate:"required"`
	DefaultVoiceID string `json:"default_voice_id" yaml:"default_voice_id" mapstructure:"default_voice_id" validate:"required"`
	OutputFormat   string `json:"output_format" yaml:"output_format" mapstructure:"output_format"`
}

// SpeechConfig selects and configures the speech synthesis backend
type SpeechConfig struct {
	Provider    string           `json:"provider" yaml:"provider" mapstructure:"provider" validate:"oneof=elevenlabs openai"`
	ElevenLabs  ElevenLabsConfig `json:"elevenlabs" yaml:"elevenlabs" mapstructure:"elevenlabs"`
	OpenAIModel string           `json:"openai_model" yaml:"openai_model" mapstructure:"openai_model"`
	OpenAIVoice string           `json:"openai_voice" yaml:"openai_voice" mapstructure:"openai_voice"`
	Timeout     time.Duration    `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// AgentFlowConfig configures the /agent-flow pipeline
type AgentFlowConfig struct {
	TranscriptionProvider string        `json:"transcription_provider" yaml:"transcription_provider" mapstructure:"transcription_provider" validate:"oneof=openai groq"`
	ChatProvider          string        `json:"chat_provider" yaml:"chat_provider" mapstructure:"chat_provider" validate:"oneof=openai groq"`
	VoiceID               string        `json:"voice_id" yaml:"voice_id" mapstructure:"voice_id"`
	Streaming             bool          `json:"streaming" yaml:"streaming" mapstructure:"streaming"`
	Timeout               time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// ResilienceConfig configures the optional retry/circuit breaker wrapper around providers
type ResilienceConfig struct {
	MaxAttempts         int           `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts" validate:"min=1,max=10"`
	InitialDelay        time.Duration `json:"initial_delay" yaml:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay            time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
	BreakerEnabled      bool          `json:"breaker_enabled" yaml:"breaker_enabled" mapstructure:"breaker_enabled"`
	BreakerMaxFailures  int           `json:"breaker_max_failures" yaml:"breaker_max_failures" mapstructure:"breaker_max_failures" validate:"min=1"`
	BreakerResetTimeout time.Duration `json:"breaker_reset_timeout" yaml:"breaker_reset_timeout" mapstructure:"breaker_reset_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=json text"`
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORS CORSConfig `json:"cors" yaml:"cors" mapstructure:"cors"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// DiagnosticsConfig configures the optional MongoDB trace sink
type DiagnosticsConfig struct {
	MongoURI   string `json:"-" yaml:"mongo_uri" mapstructure:"mongo_uri"`
	Database   string `json:"database" yaml:"database" mapstructure:"database"`
	Collection string `json:"collection" yaml:"collection" mapstructure:"collection"`
}
