// ABOUTME: Tests for embedded prompt templates
// ABOUTME: Verifies injection points land in the rendered output

package prompts

import (
	"strings"
	"testing"
)

func TestSystem_InjectsShapesAndContextBank(t *testing.T) {
	out, err := System(SystemData{
		Shapes:      []string{"A → B", "C → D"},
		ContextBank: "\n## Context bank marker\n",
	})
	if err != nil {
		t.Fatalf("System() error = %v", err)
	}

	for _, want := range []string{`1. "A → B"`, `2. "C → D"`, "## Context bank marker"} {
		if !strings.Contains(out, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}

	if !strings.HasSuffix(strings.TrimSpace(out), "## Context bank marker") {
		t.Error("context bank should be injected at the end of the system prompt")
	}
}

func TestUser_InjectsSections(t *testing.T) {
	out, err := User(UserData{
		Filename:        "bls-cert.pdf",
		ToneLine:        "TONE-LINE",
		ShapeLine:       "SHAPE-LINE",
		NotesSection:    "NOTES-SECTION",
		CategoryChoices: "x|y",
	})
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}

	for _, want := range []string{"bls-cert.pdf", "TONE-LINE", "SHAPE-LINE", "NOTES-SECTION", `"category": "<x|y>"`} {
		if !strings.Contains(out, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}
