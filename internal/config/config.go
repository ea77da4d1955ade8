// ABOUTME: Centralized configuration for certpost
// ABOUTME: Loads from .env and environment variables with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harper/certpost/internal/llm"
	"github.com/harper/certpost/internal/models"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Rotation history backends
const (
	BackendFile  = "file"
	BackendCharm = "charm"
)

// Config holds all configuration for certpost
type Config struct {
	// Home holds inbox/, done/, last_shape.txt and context.json
	Home string

	// Model settings
	Provider     string
	Model        string
	Temperature  float64
	GoogleAPIKey string
	OpenAIKey    string

	// Default tone when --tone is not given
	Tone string

	// Rotation history
	RotationBackend string
	CharmHost       string
	CharmDBName     string
	AutoSync        bool

	LogLevel string
}

// LoadDotEnv loads variables from the given .env files (default ".env").
// Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return models.WrapError(models.ErrConfiguration, "load "+path, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	provider := strings.ToLower(getEnv("CERTPOST_PROVIDER", llm.ProviderGemini))
	cfg := &Config{
		Home:            getEnv("CERTPOST_HOME", "."),
		Provider:        provider,
		Model:           getEnv("CERTPOST_MODEL", llm.DefaultModel(provider)),
		Temperature:     getEnvFloat("CERTPOST_TEMPERATURE", float64(llm.DefaultTemperature)),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		Tone:            getEnv("CERTPOST_TONE", string(models.ToneDefault)),
		RotationBackend: strings.ToLower(getEnv("CERTPOST_ROTATION_BACKEND", BackendFile)),
		CharmHost:       getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:     getEnv("CHARM_DB", "certpost"),
		AutoSync:        getEnvBool("CHARM_AUTO_SYNC", true),
		LogLevel:        getEnv("LOG_LEVEL", "warn"),
	}

	return cfg, cfg.Validate()
}

// Validate checks values that can be checked without credentials
func (c *Config) Validate() error {
	if c.Provider != llm.ProviderGemini && c.Provider != llm.ProviderOpenAI {
		return configError(fmt.Errorf("CERTPOST_PROVIDER must be %s or %s, got %q", llm.ProviderGemini, llm.ProviderOpenAI, c.Provider))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return configError(fmt.Errorf("CERTPOST_TEMPERATURE must be 0-2, got %f", c.Temperature))
	}
	if c.RotationBackend != BackendFile && c.RotationBackend != BackendCharm {
		return configError(fmt.Errorf("CERTPOST_ROTATION_BACKEND must be %s or %s, got %q", BackendFile, BackendCharm, c.RotationBackend))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return configError(fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return nil
}

// APIKey returns the key for the configured provider
func (c *Config) APIKey() string {
	if c.Provider == llm.ProviderOpenAI {
		return c.OpenAIKey
	}
	return c.GoogleAPIKey
}

// RequireCredentials fails when the configured provider has no API key
func (c *Config) RequireCredentials() error {
	if c.APIKey() != "" {
		return nil
	}
	name := "GOOGLE_API_KEY"
	if c.Provider == llm.ProviderOpenAI {
		name = "OPENAI_API_KEY"
	}
	return configError(fmt.Errorf("%s is not set; add it to .env or export it", name))
}

// LLMConfig returns the model client configuration
func (c *Config) LLMConfig() *llm.ClientConfig {
	return &llm.ClientConfig{
		Provider:    c.Provider,
		APIKey:      c.APIKey(),
		Model:       c.Model,
		Temperature: float32(c.Temperature),
	}
}

// InboxDir is where new documents are dropped
func (c *Config) InboxDir() string {
	return filepath.Join(c.Home, "inbox")
}

// DoneDir is the archive root
func (c *Config) DoneDir() string {
	return filepath.Join(c.Home, "done")
}

// ShapeFile is the flat-file rotation history
func (c *Config) ShapeFile() string {
	return filepath.Join(c.Home, "last_shape.txt")
}

// ContextBankFile returns the first context bank file present in Home,
// or the default JSON path when none exists
func (c *Config) ContextBankFile() string {
	for _, name := range []string{"context.json", "context.yaml", "context.yml"} {
		path := filepath.Join(c.Home, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(c.Home, "context.json")
}

// EnsureDirs creates the inbox and archive directories
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.InboxDir(), c.DoneDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func configError(err error) error {
	return models.WrapError(models.ErrConfiguration, "config", err)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
