// ABOUTME: Tests for the watch command
// ABOUTME: Runs the watcher briefly against a stub model

package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := NewWatchCmd()

	if cmd.Use != "watch" {
		t.Errorf("Use = %q, want %q", cmd.Use, "watch")
	}
	for _, name := range []string{"tone", "match", "process-existing"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found", name)
		}
	}
}

func TestRunWatch_ProcessExistingThenStops(t *testing.T) {
	dir := workspace(t)
	useGenerator(t, &stubGenerator{replies: map[string]string{"bls.png": clinicalReply}})
	writeInbox(t, dir, "bls.png", "png")

	home = dir
	defer func() { home = "" }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cmd := &cobra.Command{}
	var output strings.Builder
	cmd.SetOut(&output)

	if err := runWatch(ctx, cmd, "", "", true); err != nil {
		t.Fatalf("runWatch() error = %v", err)
	}

	if !fileExists(filepath.Join(dir, "done", "clinical", "bls-renewal", "bls.png")) {
		t.Error("existing document was not processed")
	}
	for _, want := range []string{"Watching", "Done!", "1 archived"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("output missing %q:\n%s", want, output.String())
		}
	}
}
