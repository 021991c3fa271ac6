// Copyright (c) 2025 ryichk
// Licensed under the MIT License.
// This is a Go implementation inspired by the Agent Development Kit (ADK) quickstart.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable read by FromEnv and restores it after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range keys {
		for _, env := range envs {
			t.Setenv(env, "")
			require.NoError(t, os.Unsetenv(env))
		}
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, DefaultSessionID, cfg.SessionID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Streaming)
	assert.False(t, cfg.TracingEnabled)
	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.AllowedLanguages)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_APP_NAME", "other_app")
	t.Setenv("AGENT_STREAMING", "true")
	t.Setenv("AGENT_ALLOWED_LANGUAGES", "en, ja,,")
	t.Setenv("AGENT_MAX_INPUT_LENGTH", "2000")
	t.Setenv("AGENT_MODEL", "claude-sonnet-4-5")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "other_app", cfg.AppName)
	assert.True(t, cfg.Streaming)
	assert.Equal(t, []string{"en", "ja"}, cfg.AllowedLanguages)
	assert.Equal(t, 2000, cfg.MaxInputLength)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.Equal(t, "gemini-key", cfg.GoogleAPIKey, "GEMINI_API_KEY is accepted as a fallback")

	t.Setenv("GOOGLE_API_KEY", "google-key")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "google-key", cfg.GoogleAPIKey, "GOOGLE_API_KEY takes precedence")
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_USER_ID", "from_process")

	path := writeEnvFile(t, "GOOGLE_API_KEY=file-key\nAGENT_USER_ID=from_file\nAGENT_LOG_LEVEL=debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.GoogleAPIKey)
	assert.Equal(t, "from_process", cfg.UserID, "the process environment wins over the file")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppName, cfg.AppName)
}

func TestValidate(t *testing.T) {
	cfg := &Config{AppName: "my_first_app", UserID: "user_12345", SessionID: " "}

	err := cfg.Validate()
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "session_id", cfgErr.Field)
	assert.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "session_id")

	cfg.SessionID = "session_67890"
	cfg.MaxInputLength = -1
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "max_input_length", cfgErr.Field)
}

func TestValidateCredentials(t *testing.T) {
	cfg := &Config{GoogleAPIKey: "key"}

	assert.NoError(t, cfg.ValidateCredentials("gemini-2.5-flash"))

	err := cfg.ValidateCredentials("claude-sonnet-4-5")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "anthropic_api_key", cfgErr.Field)
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	require.ErrorAs(t, cfg.ValidateCredentials("gpt-4o"), &cfgErr)
	assert.Equal(t, "openai_api_key", cfgErr.Field)
}

func TestDerivedConfigs(t *testing.T) {
	cfg := &Config{
		OpenAIAPIKey:     "sk-test",
		OpenAIBaseURL:    "http://localhost:8080/v1",
		GoogleAPIKey:     "google-key",
		AnthropicAPIKey:  "sk-ant-test",
		AnthropicBaseURL: "http://localhost:9090",
		LogLevel:         "debug",
		TracingEnabled:   true,
		TraceDir:         "./traces",
	}

	pc := cfg.ProviderConfig()
	assert.Equal(t, "sk-test", pc.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", pc.OpenAI.BaseURL)
	assert.Equal(t, "google-key", pc.Gemini.APIKey)
	assert.Equal(t, "sk-ant-test", pc.Anthropic.APIKey)
	assert.Equal(t, "http://localhost:9090", pc.Anthropic.BaseURL)

	lc := cfg.LoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.True(t, lc.Redact)

	tc := cfg.TracingConfig()
	assert.True(t, tc.Enabled)
	assert.Equal(t, "./traces", tc.BackupDir)
}
