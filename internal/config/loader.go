package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()

	setDefaults(v)

	// server.port -> SERVER_PORT, agent_flow.timeout -> AGENT_FLOW_TIMEOUT, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindWellKnownEnv(v)

	return &Loader{v: v}
}

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Environment variables (highest priority)
// 2. Configuration file (config.yaml)
// 3. Default values (lowest priority)
func (l *Loader) LoadConfig(configPaths ...string) (*Config, error) {
	if len(configPaths) == 0 {
		configPaths = []string{".", "./config", "/etc/eduverse"}
	}

	for _, path := range configPaths {
		l.v.AddConfigPath(path)
	}

	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Security.CORS.AllowedOrigins = splitList(config.Security.CORS.AllowedOrigins)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ConfigFileUsed returns the config file that was read, if any
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_audio_bytes", 25*1024*1024)
	v.SetDefault("server.max_image_bytes", 20*1024*1024)

	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.openai.chat_model", "gpt-4o")
	v.SetDefault("providers.openai.transcription_model", "whisper-1")
	v.SetDefault("providers.openai.vision_model", "gpt-4o")
	v.SetDefault("providers.openai.timeout", "60s")

	v.SetDefault("providers.groq.api_key", "")
	v.SetDefault("providers.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("providers.groq.chat_model", "llama-3.3-70b-versatile")
	v.SetDefault("providers.groq.transcription_model", "whisper-large-v3")
	v.SetDefault("providers.groq.vision_model", "")
	v.SetDefault("providers.groq.timeout", "60s")

	v.SetDefault("speech.provider", "elevenlabs")
	v.SetDefault("speech.elevenlabs.api_key", "")
	v.SetDefault("speech.elevenlabs.base_url", "https://api.elevenlabs.io")
	v.SetDefault("speech.elevenlabs.model_id", "eleven_multilingual_v2")
	v.SetDefault("speech.elevenlabs.default_voice_id", "21m00Tcm4TlvDq8ikWAM")
	v.SetDefault("speech.elevenlabs.output_format", "mp3_44100_128")
	v.SetDefault("speech.openai_model", "tts-1")
	v.SetDefault("speech.openai_voice", "alloy")
	v.SetDefault("speech.timeout", "90s")

	v.SetDefault("agent_flow.transcription_provider", "groq")
	v.SetDefault("agent_flow.chat_provider", "openai")
	v.SetDefault("agent_flow.voice_id", "")
	v.SetDefault("agent_flow.streaming", true)
	v.SetDefault("agent_flow.timeout", "120s")

	v.SetDefault("resilience.max_attempts", 1)
	v.SetDefault("resilience.initial_delay", "500ms")
	v.SetDefault("resilience.max_delay", "3s")
	v.SetDefault("resilience.breaker_enabled", false)
	v.SetDefault("resilience.breaker_max_failures", 5)
	v.SetDefault("resilience.breaker_reset_timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("security.cors.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-Request-ID", "X-Correlation-ID"})

	v.SetDefault("diagnostics.mongo_uri", "")
	v.SetDefault("diagnostics.database", "")
	v.SetDefault("diagnostics.collection", "agent-flow-traces")
}

// bindWellKnownEnv maps the conventional unprefixed variable names onto config keys
func bindWellKnownEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("providers.groq.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("speech.elevenlabs.api_key", "ELEVENLABS_API_KEY", "ELEVEN_API_KEY")
	_ = v.BindEnv("speech.provider", "SPEECH_PROVIDER")
	_ = v.BindEnv("security.cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("resilience.max_attempts", "PROVIDER_MAX_ATTEMPTS")
	_ = v.BindEnv("diagnostics.mongo_uri", "MONGODB_URI")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")
}

// splitList normalizes list values that may arrive as one comma separated string
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// GetConfigExample returns an example configuration file content
func GetConfigExample() string {
	return `# eduverse backend configuration
server:
  host: "0.0.0.0"
  port: 8000
  write_timeout: "180s"

providers:
  openai:
    chat_model: "gpt-4o"
    transcription_model: "whisper-1"
    vision_model: "gpt-4o"
  groq:
    chat_model: "llama-3.3-70b-versatile"
    transcription_model: "whisper-large-v3"

speech:
  provider: "elevenlabs"
  elevenlabs:
    default_voice_id: "21m00Tcm4TlvDq8ikWAM"

agent_flow:
  transcription_provider: "groq"
  chat_provider: "openai"
  timeout: "120s"

security:
  cors:
    allowed_origins: ["http://localhost:5173"]
`
}
