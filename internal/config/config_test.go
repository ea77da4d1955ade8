// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/certpost/internal/models"
)

var configVars = []string{
	"CERTPOST_HOME", "CERTPOST_PROVIDER", "CERTPOST_MODEL", "CERTPOST_TEMPERATURE",
	"GOOGLE_API_KEY", "OPENAI_API_KEY", "CERTPOST_TONE", "CERTPOST_ROTATION_BACKEND",
	"CHARM_HOST", "CHARM_DB", "CHARM_AUTO_SYNC", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Home != "." {
		t.Errorf("Home = %s, want .", cfg.Home)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %s, want gemini", cfg.Provider)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %s, want gemini-2.5-flash", cfg.Model)
	}
	if cfg.Temperature < 0.699 || cfg.Temperature > 0.701 {
		t.Errorf("Temperature = %f, want 0.7", cfg.Temperature)
	}
	if cfg.Tone != "default" {
		t.Errorf("Tone = %s, want default", cfg.Tone)
	}
	if cfg.RotationBackend != BackendFile {
		t.Errorf("RotationBackend = %s, want file", cfg.RotationBackend)
	}
	if cfg.CharmDBName != "certpost" {
		t.Errorf("CharmDBName = %s, want certpost", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", cfg.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("CERTPOST_HOME", "/tmp/certs")
	t.Setenv("CERTPOST_PROVIDER", "OpenAI")
	t.Setenv("CERTPOST_TEMPERATURE", "1.2")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CERTPOST_ROTATION_BACKEND", "charm")
	t.Setenv("CHARM_AUTO_SYNC", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %s, want openai", cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %s, want gpt-4o-mini", cfg.Model)
	}
	if cfg.Temperature != 1.2 {
		t.Errorf("Temperature = %f, want 1.2", cfg.Temperature)
	}
	if cfg.APIKey() != "sk-test" {
		t.Errorf("APIKey() = %s, want sk-test", cfg.APIKey())
	}
	if cfg.RotationBackend != BackendCharm {
		t.Errorf("RotationBackend = %s, want charm", cfg.RotationBackend)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if got := cfg.InboxDir(); got != filepath.Join("/tmp/certs", "inbox") {
		t.Errorf("InboxDir() = %s", got)
	}
	if got := cfg.DoneDir(); got != filepath.Join("/tmp/certs", "done") {
		t.Errorf("DoneDir() = %s", got)
	}
	if got := cfg.ShapeFile(); got != filepath.Join("/tmp/certs", "last_shape.txt") {
		t.Errorf("ShapeFile() = %s", got)
	}

	llmCfg := cfg.LLMConfig()
	if llmCfg.Provider != "openai" || llmCfg.APIKey != "sk-test" || llmCfg.Temperature != float32(1.2) {
		t.Errorf("LLMConfig() = %+v", llmCfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.Provider = "anthropic" }, true},
		{"temperature too low", func(c *Config) { c.Temperature = -0.1 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, true},
		{"temperature upper bound", func(c *Config) { c.Temperature = 2 }, false},
		{"unknown backend", func(c *Config) { c.RotationBackend = "redis" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: "gemini", Temperature: 0.7, RotationBackend: BackendFile, LogLevel: "warn"}
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, models.ErrConfiguration) {
				t.Errorf("Validate() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		wantVar string
	}{
		{"gemini with key", Config{Provider: "gemini", GoogleAPIKey: "k"}, false, ""},
		{"gemini without key", Config{Provider: "gemini", OpenAIKey: "k"}, true, "GOOGLE_API_KEY"},
		{"openai without key", Config{Provider: "openai", GoogleAPIKey: "k"}, true, "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireCredentials()
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequireCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, models.ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.wantVar) {
				t.Errorf("error = %q, want it to name %s", err, tt.wantVar)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GOOGLE_API_KEY=from-dotenv\nCERTPOST_TONE=casual\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CERTPOST_TONE", "formal")
	// godotenv skips variables that exist, even when empty
	os.Unsetenv("GOOGLE_API_KEY")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv("GOOGLE_API_KEY"); got != "from-dotenv" {
		t.Errorf("GOOGLE_API_KEY = %q, want from-dotenv", got)
	}
	if got := os.Getenv("CERTPOST_TONE"); got != "formal" {
		t.Errorf("CERTPOST_TONE = %q, want the existing value formal", got)
	}
}

func TestContextBankFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Home: dir}

	if got := cfg.ContextBankFile(); got != filepath.Join(dir, "context.json") {
		t.Errorf("ContextBankFile() = %s, want default json path", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "context.yaml"), []byte("event_types: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := cfg.ContextBankFile(); got != filepath.Join(dir, "context.yaml") {
		t.Errorf("ContextBankFile() = %s, want yaml path", got)
	}
}

func TestEnsureDirs(t *testing.T) {
	cfg := &Config{Home: t.TempDir()}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, dir := range []string{cfg.InboxDir(), cfg.DoneDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
}
