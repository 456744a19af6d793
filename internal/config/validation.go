package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the loaded configuration against its struct tags and cross-field rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if cfg.AgentFlow.Timeout > cfg.Server.WriteTimeout {
		return fmt.Errorf("agent_flow.timeout (%s) must not exceed server.write_timeout (%s)",
			cfg.AgentFlow.Timeout, cfg.Server.WriteTimeout)
	}

	for _, origin := range cfg.Security.CORS.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("security.cors.allowed_origins must list explicit origins, '*' is not allowed")
		}
	}

	return nil
}

// formatValidationError flattens validator errors into one readable message
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s], got '%v'", field, fe.Param(), fe.Value()))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed '%s=%s' (value '%v')", field, fe.Tag(), fe.Param(), fe.Value()))
		}
	}

	return errors.New(strings.Join(messages, "; "))
}

// MissingKeys lists provider API keys that are not configured
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.Providers.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Providers.Groq.APIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if c.Speech.Provider == "elevenlabs" && c.Speech.ElevenLabs.APIKey == "" {
		missing = append(missing, "ELEVENLABS_API_KEY")
	}
	return missing
}
