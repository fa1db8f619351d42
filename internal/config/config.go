// Package config loads the seniorhelp YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the whole configuration file.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig selects the model the answer provider asks.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Endpoint    string  `yaml:"endpoint"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Temperature float64 `yaml:"temperature"`
	NumCtx      int     `yaml:"num_ctx"`
	Timeout     string  `yaml:"timeout"`
}

// ServerConfig configures `seniorhelp serve`.
type ServerConfig struct {
	Addr           string          `yaml:"addr"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Knowledge      KnowledgeConfig `yaml:"knowledge"`
	SessionTTL     string          `yaml:"session_ttl"`
}

// RateLimitConfig bounds asks per client address.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// KnowledgeConfig selects the knowledge base store.
type KnowledgeConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Driver     string  `yaml:"driver"`
	Path       string  `yaml:"path"`
	Similarity float64 `yaml:"similarity"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	ProviderURL   string `yaml:"provider_url"`
	Timeout       string `yaml:"timeout"`
	AltScreen     bool   `yaml:"alt_screen"`
	MarkdownStyle string `yaml:"markdown_style"`
}

// LoggingConfig controls zap output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "deepseek-llm:7b",
			Endpoint:    "http://localhost:11434",
			Temperature: 0,
			NumCtx:      8192,
			Timeout:     "3m",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:5000",
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimit:      RateLimitConfig{PerMinute: 30, Burst: 5},
			Knowledge: KnowledgeConfig{
				Enabled:    true,
				Driver:     "json",
				Path:       filepath.Join(dataDir, "knowledge.json"),
				Similarity: 0.85,
			},
			SessionTTL: "12h",
		},
		Client: ClientConfig{
			ProviderURL:   "http://127.0.0.1:5000",
			Timeout:       "2m",
			AltScreen:     true,
			MarkdownStyle: "dark",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "seniorhelp.log"),
		},
	}
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "seniorhelp", "config.yaml")
	}
	return "seniorhelp.yaml"
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".seniorhelp")
	}
	return ".seniorhelp"
}

// Load reads path over the defaults. A missing file yields the defaults. Environment
// overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.LLM.Endpoint = strings.TrimRight(host, "/")
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("SENIORHELP_PROVIDER_URL"); url != "" {
		c.Client.ProviderURL = url
	}
	if addr := os.Getenv("SENIORHELP_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// Validate reports configuration the commands cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("invalid llm provider: %q (valid: ollama, openai)", c.LLM.Provider)
	}
	switch c.Server.Knowledge.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid knowledge driver: %q (valid: json, sqlite)", c.Server.Knowledge.Driver)
	}
	if sim := c.Server.Knowledge.Similarity; sim < 0 || sim > 1 {
		return fmt.Errorf("knowledge similarity must be within [0, 1], got %v", sim)
	}
	return nil
}

// LLMTimeout returns llm.timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 3*time.Minute)
}

// ClientTimeout returns client.timeout as a duration.
func (c *Config) ClientTimeout() time.Duration {
	return parseDuration(c.Client.Timeout, 2*time.Minute)
}

// SessionTTL returns server.session_ttl as a duration.
func (c *Config) SessionTTL() time.Duration {
	return parseDuration(c.Server.SessionTTL, 12*time.Hour)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
