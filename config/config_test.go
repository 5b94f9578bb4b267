package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/santiagomed/dapp/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"DAPP_PROVIDER", "DAPP_MODEL", "DAPP_WORKERS", "DAPP_S3_BUCKET",
		"DAPP_OPENAI_API_KEY", "DAPP_ANTHROPIC_API_KEY", "DAPP_GEMINI_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
provider: anthropic
model: claude-test
anthropic_api_key: file-key
workers: 4
timeout: 90s
s3:
  endpoint: localhost:9000
  bucket: bundles
  use_ssl: false
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-test", cfg.Model)
	assert.Equal(t, "file-key", cfg.APIKey())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.True(t, cfg.S3.Enabled())
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "provider: anthropic\nmodel: from-file\nanthropic_api_key: file-key\n")
	t.Setenv("DAPP_MODEL", "from-env")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("DAPP_S3_BUCKET", "env-bucket")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Model)
	assert.Equal(t, "env-key", cfg.APIKey())
	assert.Equal(t, "env-bucket", cfg.S3.Bucket)
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "provider: cohere\n")

	_, err := LoadConfig(dir)
	var unsupported *llm.UnsupportedProviderError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "cohere", unsupported.Provider)
}

func TestLoadConfig_OverrideReplacesBadProvider(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "provider: cohere\nmodel: from-file\n")

	cfg, err := LoadConfig(dir, func(c *Config) { c.Provider = "gemini" })
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "from-file", cfg.Model)

	_, err = LoadConfig(dir, func(c *Config) { c.Provider = "mistral" })
	var unsupported *llm.UnsupportedProviderError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "mistral", unsupported.Provider)
}

func TestLoadConfig_InvalidWorkers(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "workers: 0\n")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLLMConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "gemini"
	cfg.GeminiAPIKey = "g-key"
	cfg.OpenAIAPIKey = "o-key"
	cfg.TellmURL = "http://tellm"

	lc := cfg.LLMConfig("batch-1")
	assert.Equal(t, llm.ProviderGemini, lc.Provider)
	assert.Equal(t, "g-key", lc.APIKey)
	assert.Equal(t, "batch-1", lc.BatchID)
	assert.Equal(t, "http://tellm", lc.TellmURL)
}

func TestS3Enabled(t *testing.T) {
	assert.False(t, DefaultConfig().S3.Enabled())
	assert.True(t, S3Config{Endpoint: "minio:9000", Bucket: "b"}.Enabled())
}

func TestCreateDefaultConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path, err := CreateDefaultConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)

	_, err = CreateDefaultConfig(dir)
	assert.Error(t, err)
}
