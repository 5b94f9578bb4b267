package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/santiagomed/dapp/llm"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
type Config struct {
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	TellmURL        string        `mapstructure:"tellm_url"`
	OutputDir       string        `mapstructure:"output_dir"`
	LogLevel        string        `mapstructure:"log_level"`
	Workers         int           `mapstructure:"workers"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Zip             bool          `mapstructure:"zip"`
	S3              S3Config      `mapstructure:"s3"`
}

// S3Config points at an S3-compatible bucket that bundles are uploaded to.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether enough is set to attempt an upload.
func (s S3Config) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != "" && strings.TrimSpace(s.Bucket) != ""
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider:  string(llm.ProviderOpenAI),
		OutputDir: ".",
		LogLevel:  "info",
		Workers:   2,
		Timeout:   5 * time.Minute,
		S3: S3Config{
			Region: "us-east-1",
			Bucket: "dapp-bundles",
			UseSSL: true,
		},
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("provider", d.Provider)
	v.SetDefault("model", d.Model)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("tellm_url", "")
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("zip", d.Zip)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.use_ssl", d.S3.UseSSL)
}

// Override adjusts a loaded config before it is validated, typically from
// command-line flags.
type Override func(*Config)

// LoadConfig reads configuration from a .env file, config.yaml and
// environment variables, in increasing order of precedence. Overrides run
// last, so a flag can replace a bad value from the file.
func LoadConfig(configPath string, overrides ...Override) (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()

	v := viper.New()
	setDefaults(v, config)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".dapp"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and environment apply
	}

	// Environment variables
	v.SetEnvPrefix("DAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("openai_api_key", "DAPP_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("anthropic_api_key", "DAPP_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("gemini_api_key", "DAPP_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	for _, o := range overrides {
		o(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if !llm.ProviderID(config.Provider).IsValid() {
		return &llm.UnsupportedProviderError{Provider: config.Provider}
	}
	if config.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}
	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	switch llm.ProviderID(c.Provider) {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	case llm.ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// LLMConfig builds the provider configuration for one run.
func (c *Config) LLMConfig(batchID string) llm.Config {
	return llm.Config{
		Provider: llm.ProviderID(c.Provider),
		APIKey:   c.APIKey(),
		Model:    c.Model,
		BatchID:  batchID,
		TellmURL: c.TellmURL,
	}
}

const defaultConfigFile = `# dapp configuration

# Provider used for generation: openai, anthropic or gemini
provider: openai

# Model name (optional, each provider has a default)
# model: "gpt-4o-mini"

# API keys. The OPENAI_API_KEY, ANTHROPIC_API_KEY and GEMINI_API_KEY
# environment variables take precedence.
# openai_api_key: ""
# anthropic_api_key: ""
# gemini_api_key: ""

# Usage logging endpoint (optional)
# tellm_url: "http://localhost:8080"

# Where generated bundles are written
output_dir: "."

log_level: info
workers: 2
timeout: 5m

# S3-compatible storage for gen --upload (optional)
# s3:
#   endpoint: "localhost:9000"
#   region: "us-east-1"
#   access_key: ""
#   secret_key: ""
#   bucket: "dapp-bundles"
#   prefix: ""
#   use_ssl: false
`

// CreateDefaultConfig writes a commented config.yaml into dir, or ~/.dapp
// when dir is empty, and returns its path. An existing file is left alone.
func CreateDefaultConfig(dir string) (string, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".dapp")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigFile), 0644); err != nil {
		return "", fmt.Errorf("unable to write default config file: %w", err)
	}
	return configPath, nil
}
