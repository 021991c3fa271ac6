// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/ryichk/first-agent-go/logger"
	"github.com/ryichk/first-agent-go/model"
	"github.com/ryichk/first-agent-go/tracing"
)

// Defaults for the identifiers of the example turn
const (
	DefaultEnvFile   = ".env"
	DefaultAppName   = "my_first_app"
	DefaultUserID    = "user_12345"
	DefaultSessionID = "session_67890"
)

var (
	// ErrMissingValue is returned when a required setting is empty
	ErrMissingValue = errors.New("value is required")

	// ErrMissingCredentials is returned when no API key is set for the selected model
	ErrMissingCredentials = errors.New("no API key configured for model provider")
)

// ConfigurationError reports an invalid or missing setting
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Config is the runtime configuration read from the environment
type Config struct {
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIOrganization string

	GoogleAPIKey  string
	GeminiBaseURL string

	AnthropicAPIKey  string
	AnthropicBaseURL string

	// Model overrides the model of the root agent when set
	Model string

	AppName   string
	UserID    string
	SessionID string

	Streaming bool

	// AllowedLanguages enables the language guardrail when non-empty
	AllowedLanguages []string
	MaxInputLength   int

	LogLevel  string
	LogPretty bool

	TracingEnabled bool
	TraceDir       string
}

// keys maps viper keys to the environment variables they are read from, in priority order
var keys = map[string][]string{
	"openai_api_key":      {"OPENAI_API_KEY"},
	"openai_base_url":     {"OPENAI_BASE_URL"},
	"openai_organization": {"OPENAI_ORGANIZATION"},
	"google_api_key":      {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"gemini_base_url":     {"GEMINI_BASE_URL"},
	"anthropic_api_key":   {"ANTHROPIC_API_KEY"},
	"anthropic_base_url":  {"ANTHROPIC_BASE_URL"},
	"model":               {"AGENT_MODEL"},
	"app_name":            {"AGENT_APP_NAME"},
	"user_id":             {"AGENT_USER_ID"},
	"session_id":          {"AGENT_SESSION_ID"},
	"streaming":           {"AGENT_STREAMING"},
	"allowed_languages":   {"AGENT_ALLOWED_LANGUAGES"},
	"max_input_length":    {"AGENT_MAX_INPUT_LENGTH"},
	"log_level":           {"AGENT_LOG_LEVEL"},
	"log_pretty":          {"AGENT_LOG_PRETTY"},
	"tracing_enabled":     {"AGENT_TRACING_ENABLED"},
	"trace_dir":           {"AGENT_TRACE_DIR"},
}

// Load seeds the process environment from envFile, without overriding
// variables that are already set, then reads the configuration.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigurationError{Field: envFile, Err: err}
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment
func FromEnv() (*Config, error) {
	v := viper.New()
	for key, envs := range keys {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetDefault("app_name", DefaultAppName)
	v.SetDefault("user_id", DefaultUserID)
	v.SetDefault("session_id", DefaultSessionID)
	v.SetDefault("streaming", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("trace_dir", "")

	return &Config{
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		OpenAIBaseURL:      v.GetString("openai_base_url"),
		OpenAIOrganization: v.GetString("openai_organization"),
		GoogleAPIKey:       v.GetString("google_api_key"),
		GeminiBaseURL:      v.GetString("gemini_base_url"),
		AnthropicAPIKey:    v.GetString("anthropic_api_key"),
		AnthropicBaseURL:   v.GetString("anthropic_base_url"),
		Model:              v.GetString("model"),
		AppName:            v.GetString("app_name"),
		UserID:             v.GetString("user_id"),
		SessionID:          v.GetString("session_id"),
		Streaming:          v.GetBool("streaming"),
		AllowedLanguages:   splitList(v.GetString("allowed_languages")),
		MaxInputLength:     v.GetInt("max_input_length"),
		LogLevel:           v.GetString("log_level"),
		LogPretty:          v.GetBool("log_pretty"),
		TracingEnabled:     v.GetBool("tracing_enabled"),
		TraceDir:           v.GetString("trace_dir"),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the identifiers of the turn
func (c *Config) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"app_name", c.AppName},
		{"user_id", c.UserID},
		{"session_id", c.SessionID},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ConfigurationError{Field: f.name, Err: ErrMissingValue}
		}
	}
	if c.MaxInputLength < 0 {
		return &ConfigurationError{Field: "max_input_length", Err: fmt.Errorf("must not be negative, got %d", c.MaxInputLength)}
	}
	return nil
}

// ValidateCredentials checks that the provider serving modelName has an API key
func (c *Config) ValidateCredentials(modelName string) error {
	var field, key string
	switch model.FamilyOf(modelName) {
	case model.FamilyGemini:
		field, key = "google_api_key", c.GoogleAPIKey
	case model.FamilyAnthropic:
		field, key = "anthropic_api_key", c.AnthropicAPIKey
	default:
		field, key = "openai_api_key", c.OpenAIAPIKey
	}
	if key == "" {
		return &ConfigurationError{Field: field, Err: ErrMissingCredentials}
	}
	return nil
}

// ProviderConfig returns the credentials for model.NewProvider
func (c *Config) ProviderConfig() model.ProviderConfig {
	return model.ProviderConfig{
		OpenAI: model.OpenAIConfig{
			APIKey:       c.OpenAIAPIKey,
			BaseURL:      c.OpenAIBaseURL,
			Organization: c.OpenAIOrganization,
		},
		Gemini: model.GeminiConfig{
			APIKey:  c.GoogleAPIKey,
			BaseURL: c.GeminiBaseURL,
		},
		Anthropic: model.AnthropicConfig{
			APIKey:  c.AnthropicAPIKey,
			BaseURL: c.AnthropicBaseURL,
		},
	}
}

// LoggerConfig returns the logger settings
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.LogLevel,
		Pretty: c.LogPretty,
		Redact: true,
	}
}

// TracingConfig returns the tracing settings
func (c *Config) TracingConfig() tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = c.TracingEnabled
	tc.BackupDir = c.TraceDir
	return tc
}
