// ABOUTME: Tests for the rotation commands
// ABOUTME: Uses the flat-file history in a temp workspace

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/certpost/internal/models"
)

func TestNewRotationCmd(t *testing.T) {
	cmd := NewRotationCmd()

	if cmd.Use != "rotation" {
		t.Errorf("Use = %q, want %q", cmd.Use, "rotation")
	}

	for _, name := range []string{"show", "reset"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Use == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Subcommand %q not found", name)
		}
	}
}

func TestRotation_ShowEmpty(t *testing.T) {
	dir := workspace(t)

	output, err := runCLI(t, "--home", dir, "rotation", "show")
	if err != nil {
		t.Fatalf("rotation show error = %v", err)
	}
	if !strings.Contains(output, "No shapes used yet") {
		t.Errorf("output = %q", output)
	}
}

func TestRotation_ShowAndReset(t *testing.T) {
	dir := workspace(t)
	history := string(models.ShapeInsight) + "\n" + string(models.ShapeQuestion) + "\n"
	shapeFile := filepath.Join(dir, "last_shape.txt")
	if err := os.WriteFile(shapeFile, []byte(history), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "--home", dir, "rotation", "show")
	if err != nil {
		t.Fatalf("rotation show error = %v", err)
	}
	for _, want := range []string{
		"1. " + string(models.ShapeInsight),
		"2. " + string(models.ShapeQuestion),
		"- " + string(models.ShapeContrast),
		"- " + string(models.ShapeFact),
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	if _, err := runCLI(t, "--home", dir, "rotation", "reset"); err != nil {
		t.Fatalf("rotation reset error = %v", err)
	}
	data, err := os.ReadFile(shapeFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.TrimSpace(string(data)) != "" {
		t.Errorf("history after reset = %q, want empty", data)
	}
}
