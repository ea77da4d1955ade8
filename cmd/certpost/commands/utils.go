// ABOUTME: Shared setup and formatting helpers for CLI commands
// ABOUTME: Builds config, logger, rotation store and pipeline the same way for every command
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/certpost/internal/charm"
	"github.com/harper/certpost/internal/config"
	"github.com/harper/certpost/internal/core"
	"github.com/harper/certpost/internal/llm"
	"github.com/harper/certpost/internal/logging"
	"github.com/harper/certpost/internal/models"
	"github.com/harper/certpost/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// newGenerator builds the model client; tests replace it with a stub
var newGenerator = func(ctx context.Context, cfg *llm.ClientConfig) (llm.Generator, error) {
	return llm.NewGenerator(ctx, cfg)
}

// env is what most commands need before they can do anything
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	tracker *core.RotationTracker
	closers []func() error
}

// Close releases the rotation store and flushes the logger
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	_ = e.logger.Sync()
}

// loadConfig reads .env files and the environment, then applies --home
func loadConfig() (*config.Config, error) {
	dotenv := []string{".env"}
	if home != "" {
		dotenv = append(dotenv, filepath.Join(home, ".env"))
	}
	if err := config.LoadDotEnv(dotenv...); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if home != "" {
		cfg.Home = home
	}
	return cfg, nil
}

// setup loads configuration, the logger and the rotation tracker
func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: verbose, Quiet: quiet})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}
	store, err := openShapeStore(cfg, e)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.tracker = core.NewRotationTracker(store)
	return e, nil
}

func openShapeStore(cfg *config.Config, e *env) (core.ShapeStore, error) {
	if cfg.RotationBackend != config.BackendCharm {
		return storage.NewFileShapeStore(cfg.ShapeFile()), nil
	}

	client, err := openCharm(cfg)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, client.Close)
	return charm.NewShapeStore(client), nil
}

func openCharm(cfg *config.Config) (*charm.Client, error) {
	client, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

// buildPipeline checks credentials and the context bank, then wires the pipeline.
// Every failure here happens before any document is touched.
func (e *env) buildPipeline(ctx context.Context) (*core.Pipeline, error) {
	if err := e.cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	bank, err := core.LoadContextBank(e.cfg.ContextBankFile())
	if err != nil {
		return nil, models.WrapError(models.ErrConfiguration, "context bank", err)
	}

	generator, err := newGenerator(ctx, e.cfg.LLMConfig())
	if err != nil {
		return nil, models.WrapError(models.ErrConfiguration, "model client", err)
	}

	e.logger.Debug("pipeline ready",
		zap.String("provider", e.cfg.Provider),
		zap.String("model", generator.Model()),
		zap.Int("event_types", bank.Len()))

	return core.NewPipeline(
		e.tracker,
		core.NewPromptAssembler(core.RenderContextBank(bank)),
		generator,
		core.NewArchivist(e.cfg.DoneDir()),
		e.logger,
	), nil
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
