// Package config provides configuration loading for the docintel CLI.
// Settings come from defaults, an optional YAML file, a local .env file, and
// environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the docintel CLI.
type Config struct {
	Azure         AzureConfig         `yaml:"azure"`
	Chat          ChatConfig          `yaml:"chat"`
	Poll          PollConfig          `yaml:"poll"`
	History       HistoryConfig       `yaml:"history"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// AzureConfig holds Document Intelligence credentials and resource settings.
type AzureConfig struct {
	Endpoint            string        `yaml:"endpoint"`
	Key                 string        `yaml:"key"`
	APIVersion          string        `yaml:"api_version"`
	CustomModelID       string        `yaml:"custom_model_id"`
	ClassifierID        string        `yaml:"classifier_id"`
	BlobContainerSASURL string        `yaml:"blob_container_sas_url"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
}

// ChatConfig holds the chat-completions endpoint used by the ask command.
type ChatConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// PollConfig bounds the operation poll loops. Build polling gets its own,
// wider budget because neural model training takes tens of minutes.
type PollConfig struct {
	Interval         time.Duration `yaml:"interval"`
	MaxAttempts      int           `yaml:"max_attempts"`
	BuildInterval    time.Duration `yaml:"build_interval"`
	BuildMaxAttempts int           `yaml:"build_max_attempts"`
}

// HistoryConfig holds the local run-history store settings.
type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from an optional YAML file, loads .env, and
// applies environment overrides.
func Load(path string) (*Config, error) {
	// Load .env if present; commands run from anywhere inside the repo.
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Azure: AzureConfig{
			APIVersion:     "2024-11-30",
			RequestTimeout: 60 * time.Second,
		},
		Chat: ChatConfig{
			Model:       "Phi-4-multimodal-instruct",
			MaxTokens:   2048,
			Temperature: 0.3,
		},
		Poll: PollConfig{
			Interval:         2 * time.Second,
			MaxAttempts:      150,
			BuildInterval:    15 * time.Second,
			BuildMaxAttempts: 240,
		},
		History: HistoryConfig{
			Path: filepath.Join(home, ".docintel", "history.db"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Poll.MaxAttempts < 1 {
		return fmt.Errorf("poll max_attempts must be at least 1")
	}
	if c.Chat.MaxTokens < 1 {
		return fmt.Errorf("chat max_tokens must be at least 1")
	}
	return nil
}

// RequireAzure fails when the Document Intelligence credentials are missing.
func (c *Config) RequireAzure() error {
	if c.Azure.Endpoint == "" || c.Azure.Key == "" {
		return fmt.Errorf("missing Azure Document Intelligence credentials: set AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT and AZURE_DOCUMENT_INTELLIGENCE_KEY in .env")
	}
	return nil
}

// RequireChat fails when the chat-completions credentials are missing.
func (c *Config) RequireChat() error {
	if c.Chat.Endpoint == "" || c.Chat.Key == "" {
		return fmt.Errorf("missing chat credentials: set PHI4_ENDPOINT and PHI4_KEY in .env")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT"); v != "" {
		cfg.Azure.Endpoint = v
	}
	if v := os.Getenv("AZURE_DOCUMENT_INTELLIGENCE_KEY"); v != "" {
		cfg.Azure.Key = v
	}
	if v := os.Getenv("AZURE_DOCUMENT_INTELLIGENCE_API_VERSION"); v != "" {
		cfg.Azure.APIVersion = v
	}
	if v := os.Getenv("AZURE_DOCUMENT_INTELLIGENCE_CLASSIFIER_ID"); v != "" {
		cfg.Azure.ClassifierID = v
	}
	if v := os.Getenv("AZURE_BLOB_CONTAINER_SAS_URL"); v != "" {
		cfg.Azure.BlobContainerSASURL = v
	}
	if v := os.Getenv("CUSTOM_MODEL_ID"); v != "" {
		cfg.Azure.CustomModelID = v
	}

	if v := os.Getenv("PHI4_ENDPOINT"); v != "" {
		cfg.Chat.Endpoint = v
	}
	if v := os.Getenv("PHI4_KEY"); v != "" {
		cfg.Chat.Key = v
	}
	if v := os.Getenv("PHI4_MODEL"); v != "" {
		cfg.Chat.Model = v
	}

	if v := os.Getenv("DOCINTEL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Poll.Interval = d
		}
	}
	if v := os.Getenv("DOCINTEL_POLL_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Poll.MaxAttempts = n
		}
	}
	if v := os.Getenv("DOCINTEL_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("DOCINTEL_HISTORY_DISABLED"); v == "true" {
		cfg.History.Disabled = true
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
