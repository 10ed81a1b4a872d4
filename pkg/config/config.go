package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for minutes-engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// MigrationsPath is the directory containing SQL migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Fetch    FetchConfig    `yaml:"fetch"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"minutes"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"minutes_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
}

// URL returns the connection string for pgx.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// LLMConfig holds configuration for the LLM provider backing the matching
// oracle and the LLM speech extractor.
type LLMConfig struct {
	// Provider selects the chat client implementation: "openai" for any
	// OpenAI-compatible endpoint, "anthropic" for the Anthropic API.
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// MatcherConfig holds the confidence thresholds applied when resolving
// extraction candidates. Thresholds are deployment-tunable rather than
// hard-coded constants.
type MatcherConfig struct {
	// MatchThreshold: confidence at or above this resolves to matched.
	MatchThreshold float64 `yaml:"match_threshold" env:"MATCHER_MATCH_THRESHOLD" env-default:"0.7"`
	// ReviewThreshold: confidence at or above this (but below
	// MatchThreshold) is parked for human review.
	ReviewThreshold float64 `yaml:"review_threshold" env:"MATCHER_REVIEW_THRESHOLD" env-default:"0.5"`
}

// Validate checks threshold ordering.
func (c *MatcherConfig) Validate() error {
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in [0,1], got %g", c.MatchThreshold)
	}
	if c.ReviewThreshold < 0 || c.ReviewThreshold > 1 {
		return fmt.Errorf("review_threshold must be in [0,1], got %g", c.ReviewThreshold)
	}
	if c.ReviewThreshold > c.MatchThreshold {
		return fmt.Errorf("review_threshold (%g) must not exceed match_threshold (%g)",
			c.ReviewThreshold, c.MatchThreshold)
	}
	return nil
}

// FetchConfig holds settings for the transcript source fetcher.
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds" env:"FETCH_TIMEOUT_SECONDS" env-default:"30"`
	MaxRetries     int `yaml:"max_retries" env:"FETCH_MAX_RETRIES" env-default:"3"`
	// Extractor selects the speech extractor: "rule" for line-pattern
	// parsing, "llm" for chat-model extraction of unstructured transcripts.
	Extractor string `yaml:"extractor" env:"FETCH_EXTRACTOR" env-default:"rule"`
}

// Load reads configuration from config.yaml (if present) and the
// environment. The version string is set by the caller (build-time ldflags).
func Load(version string) (*Config, error) {
	cfg := &Config{}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	cfg.Version = version

	if err := cfg.Matcher.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher config: %w", err)
	}

	return cfg, nil
}
