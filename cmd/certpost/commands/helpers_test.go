// ABOUTME: Shared fixtures for command tests
// ABOUTME: Isolated workspace, scrubbed environment and a stub model

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/certpost/internal/llm"
)

type stubGenerator struct {
	replies  map[string]string
	failures map[string]error
}

func (g *stubGenerator) Model() string { return "stub" }

func (g *stubGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	if err, ok := g.failures[req.Filename]; ok {
		return "", err
	}
	if reply, ok := g.replies[req.Filename]; ok {
		return reply, nil
	}
	return "A post.", nil
}

// useGenerator swaps the model factory for the duration of the test
func useGenerator(t *testing.T, gen llm.Generator) {
	t.Helper()
	original := newGenerator
	newGenerator = func(context.Context, *llm.ClientConfig) (llm.Generator, error) {
		return gen, nil
	}
	t.Cleanup(func() { newGenerator = original })
}

// workspace creates an isolated home and scrubs certpost's environment
func workspace(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"CERTPOST_HOME", "CERTPOST_PROVIDER", "CERTPOST_MODEL", "CERTPOST_TEMPERATURE",
		"CERTPOST_TONE", "CERTPOST_ROTATION_BACKEND", "OPENAI_API_KEY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("GOOGLE_API_KEY", "test-key")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "inbox"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeInbox(t *testing.T, home, name, content string) string {
	t.Helper()
	path := filepath.Join(home, "inbox", name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with a non-interactive stdin
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return output.String(), err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
