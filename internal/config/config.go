// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the tool server endpoint, the completion API, and server behavior.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Default values applied when the corresponding env var is unset.
const (
	DefaultMCPServerURL = "http://localhost:8000"
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultPort         = "8080"
	DefaultEnvironment  = "development"
)

// Config holds all application configuration
type Config struct {
	// Tool server Configuration
	MCPServerURL string

	// Completion API Configuration
	// An empty API key disables the LLM path entirely; the service then
	// classifies intents with the rule-based matcher and skips the rewrite.
	OpenAIAPIKey string
	OpenAIModel  string

	// Server Configuration
	Port            string
	LogLevel        string
	Environment     string
	ShutdownTimeout time.Duration
	HTTPTimeout     time.Duration

	// Observability Configuration (optional)
	BetterStackToken    string
	BetterStackEndpoint string
	SentryToken         string
	SentryHost          string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		MCPServerURL: getEnv(EnvMCPServerURL, DefaultMCPServerURL),

		OpenAIAPIKey: getEnv(EnvOpenAIAPIKey, ""),
		OpenAIModel:  getEnv(EnvOpenAIModel, DefaultOpenAIModel),

		Port:            getEnv(EnvPort, DefaultPort),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		Environment:     getEnv(EnvEnvironment, DefaultEnvironment),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),
		HTTPTimeout:     getDurationEnv(EnvHTTPTimeout, 30*time.Second),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
		SentryToken:         getEnv(EnvSentryToken, ""),
		SentryHost:          getEnv(EnvSentryHost, "errors.betterstack.com"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
// A missing OpenAI API key is deliberately not an error: it downgrades the
// service to the rule-based classification path.
func (c *Config) Validate() error {
	var errs []error

	if c.MCPServerURL == "" {
		errs = append(errs, errors.New(EnvMCPServerURL+" is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvHTTPTimeout, c.HTTPTimeout))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasOpenAIKey returns true if the completion API credential is configured.
func (c *Config) HasOpenAIKey() bool {
	return c.OpenAIAPIKey != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
