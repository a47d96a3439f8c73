package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/synergy/internal/ai"
)

// Config is the root configuration for synergy.
type Config struct {
	AI           AIConfig
	Prompt       PromptConfig
	Limits       LimitsConfig
	Batch        BatchConfig
	Session      SessionConfig
	Notification NotificationConfig
}

// AIConfig selects and tunes the completion provider.
type AIConfig struct {
	Provider   string        // "openai", "gemini" or "echo"
	BaseURL    string        // defaults to https://api.openai.com/v1 for openai
	Model      string        // model identifier sent with every request
	APIKey     string        // expanded from env var by Load
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // extra attempts after a transient failure, 0 disables retry
	RetryDelay time.Duration // delay before the first retry, doubled each time
	MinDelay   time.Duration // minimum gap between completion calls
}

// PromptConfig holds the defaults for the role label and instruction template.
type PromptConfig struct {
	Role     string `yaml:"role"`
	Template string `yaml:"template"`
}

// LimitsConfig bounds the size of a batch.
type LimitsConfig struct {
	MaxRows             int `yaml:"max_rows"`
	MaxDescriptionWords int `yaml:"max_description_words"`
}

// BatchConfig controls how a failed pass is accumulated.
type BatchConfig struct {
	// KeepPartial appends rows produced before a completion failure instead
	// of discarding the whole pass.
	KeepPartial bool `yaml:"keep_partial"`
}

// SessionConfig controls where session tables are persisted.
type SessionConfig struct {
	DBPath string `yaml:"db_path"` // empty keeps the session in memory
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

const (
	defaultProvider      = "openai"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultModel         = "gpt-4-0125-preview"
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultRole          = "VC analyst"
	defaultMaxRows       = 20
	defaultMaxWords      = 250
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI           rawAIConfig        `yaml:"ai"`
	Prompt       PromptConfig       `yaml:"prompt"`
	Limits       LimitsConfig       `yaml:"limits"`
	Batch        BatchConfig        `yaml:"batch"`
	Session      SessionConfig      `yaml:"session"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawAIConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
	MinDelay   string `yaml:"min_delay"`
}

// Default returns the configuration used when no config file exists.
// The API key is taken from OPENAI_API_KEY.
func Default() *Config {
	// build only fails on malformed durations and the raw config here has none.
	cfg, _ := build(rawConfig{AI: rawAIConfig{APIKey: os.Getenv("OPENAI_API_KEY")}})
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := build(raw)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func build(raw rawConfig) (*Config, error) {
	timeout, err := parseDuration("ai.timeout", raw.AI.Timeout, 60*time.Second)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("ai.retry_delay", raw.AI.RetryDelay, 5*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("ai.min_delay", raw.AI.MinDelay, 0)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(raw.AI.Provider)
	if provider == "" {
		provider = defaultProvider
	}

	baseURL := raw.AI.BaseURL
	if baseURL == "" && provider == "openai" {
		baseURL = defaultOpenAIBaseURL
	}

	model := raw.AI.Model
	if model == "" {
		model = defaultModel
		if provider == "gemini" {
			model = defaultGeminiModel
		}
	}

	prompt := raw.Prompt
	if prompt.Role == "" {
		prompt.Role = defaultRole
	}
	if prompt.Template == "" {
		prompt.Template = ai.DefaultTemplate
	}

	limits := raw.Limits
	if limits.MaxRows == 0 {
		limits.MaxRows = defaultMaxRows
	}
	if limits.MaxDescriptionWords == 0 {
		limits.MaxDescriptionWords = defaultMaxWords
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	return &Config{
		AI: AIConfig{
			Provider:   provider,
			BaseURL:    baseURL,
			Model:      model,
			APIKey:     raw.AI.APIKey,
			Timeout:    timeout,
			MaxRetries: raw.AI.MaxRetries,
			RetryDelay: retryDelay,
			MinDelay:   minDelay,
		},
		Prompt:       prompt,
		Limits:       limits,
		Batch:        raw.Batch,
		Session:      raw.Session,
		Notification: notification,
	}, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

// Validate reports the first invalid setting. Callers that override fields
// after Load (command-line flags) should validate again.
func (cfg *Config) Validate() error {
	switch cfg.AI.Provider {
	case "openai", "gemini":
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.provider is %q", cfg.AI.Provider)
		}
	case "echo":
	default:
		return fmt.Errorf("ai.provider must be one of openai, gemini, echo, got %q", cfg.AI.Provider)
	}

	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}
	if cfg.AI.MinDelay < 0 {
		return fmt.Errorf("ai.min_delay must not be negative, got %v", cfg.AI.MinDelay)
	}

	if cfg.Limits.MaxRows < 0 {
		return fmt.Errorf("limits.max_rows must not be negative, got %d", cfg.Limits.MaxRows)
	}
	if cfg.Limits.MaxDescriptionWords < 0 {
		return fmt.Errorf("limits.max_description_words must not be negative, got %d", cfg.Limits.MaxDescriptionWords)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}
