// Package config loads BEST FIT configuration from a YAML file, a .env file
// and the process environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = ".bestfit/config.yaml"

// Config holds all BEST FIT configuration.
type Config struct {
	Name string `yaml:"name"`

	// LLM provider connection
	LLM LLMConfig `yaml:"llm"`

	// Per-flow model selection
	Wizard  FlowConfig `yaml:"wizard" envPrefix:"BESTFIT_WIZARD_"`
	Session FlowConfig `yaml:"session" envPrefix:"BESTFIT_SESSION_"`

	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Usage   UsageConfig   `yaml:"usage"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the completion API client.
type LLMConfig struct {
	Provider string `yaml:"provider" env:"BESTFIT_PROVIDER"` // openai, gemini
	APIKey   string `yaml:"api_key" env:"BESTFIT_API_KEY"`
	BaseURL  string `yaml:"base_url" env:"BESTFIT_BASE_URL"`
	Timeout  string `yaml:"timeout" env:"BESTFIT_TIMEOUT"`
}

// FlowConfig selects the model and sampling for one flow.
type FlowConfig struct {
	Model       string  `yaml:"model" env:"MODEL"`
	MaxTokens   int     `yaml:"max_tokens" env:"MAX_TOKENS"`
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`
}

// ServerConfig configures the HTTP wizard API.
type ServerConfig struct {
	Address        string   `yaml:"address" env:"BESTFIT_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"BESTFIT_ALLOWED_ORIGINS" envSeparator:","`
}

// UIConfig configures the terminal wizard.
type UIConfig struct {
	Theme string `yaml:"theme" env:"BESTFIT_THEME"` // auto, light, dark
}

// UsageConfig configures token usage tracking. An empty file keeps usage in
// memory only.
type UsageConfig struct {
	File string `yaml:"file" env:"BESTFIT_USAGE_FILE"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, console
	File       string          `yaml:"file"`
	DebugMode  bool            `yaml:"debug_mode" env:"BESTFIT_DEBUG"`
	Categories map[string]bool `yaml:"categories"`
}

// Default models per provider.
const (
	DefaultOpenAIWizardModel  = "gpt-4o"
	DefaultOpenAISessionModel = "gpt-4o-mini"
	DefaultGeminiModel        = "gemini-2.5-flash"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "BEST FIT",

		LLM: LLMConfig{
			Provider: "openai",
			Timeout:  "60s",
		},

		Wizard: FlowConfig{
			Model:       DefaultOpenAIWizardModel,
			MaxTokens:   2048,
			Temperature: 0.7,
		},

		Session: FlowConfig{
			Model:       DefaultOpenAISessionModel,
			MaxTokens:   1500,
			Temperature: 0.7,
		},

		Server: ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},

		UI: UIConfig{
			Theme: "auto",
		},

		Usage: UsageConfig{
			File: ".bestfit/usage.json",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   ".bestfit/logs/bestfit.log",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Values from a .env file in the working directory and from the environment
// override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// .env is optional
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.applyProviderDefaults()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies provider API keys from the environment.
// GEMINI_API_KEY is checked last and wins when both are set.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	c.applyProviderDefaults()
}

// applyProviderDefaults replaces unset or OpenAI default models with the
// Gemini default when the gemini provider is selected.
func (c *Config) applyProviderDefaults() {
	if c.LLM.Provider != "gemini" {
		return
	}
	if c.Wizard.Model == "" || c.Wizard.Model == DefaultOpenAIWizardModel {
		c.Wizard.Model = DefaultGeminiModel
	}
	if c.Session.Model == "" || c.Session.Model == DefaultOpenAISessionModel {
		c.Session.Model = DefaultGeminiModel
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "gemini"}

// Validate validates the configuration. A missing API key is not an error
// here; the session command and the completion client report it themselves.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	if c.Wizard.Model == "" || c.Session.Model == "" {
		return fmt.Errorf("wizard and session models must be set")
	}
	if c.LLM.Provider == "gemini" {
		for _, m := range []string{c.Wizard.Model, c.Session.Model} {
			if strings.HasPrefix(m, "gpt-") {
				return fmt.Errorf("model %s is not served by the gemini provider", m)
			}
		}
	}

	if c.LLM.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
			return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
		}
	}

	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui theme: %s (valid: auto, light, dark)", c.UI.Theme)
	}

	return nil
}

// HasCredential reports whether an API key is configured.
func (c *Config) HasCredential() bool {
	return c.LLM.APIKey != ""
}
