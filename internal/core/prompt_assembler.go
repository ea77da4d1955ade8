// ABOUTME: PromptAssembler builds the system and user prompts for one document
// ABOUTME: Output is a pure function of document, notes, tone, rotation history and context bank
package core

import (
	"fmt"
	"strings"

	"github.com/harper/certpost/internal/models"
	"github.com/harper/certpost/internal/prompts"
)

var toneLines = map[models.Tone]string{
	models.ToneCasual:  "Tone: conversational and warm, like talking to a friend who's also in medicine.",
	models.ToneFormal:  "Tone: polished and professional, suitable for academic and clinical networking.",
	models.ToneDefault: "Tone: natural middle ground, professional but not stiff, personal but not too casual.",
}

// ToneLine returns the prompt line for a tone name; unknown names get the default tone
func ToneLine(tone string) string {
	return toneLines[models.ParseTone(tone)]
}

// Prompts is the pair of prompts sent to the model
type Prompts struct {
	System string
	User   string
}

// PromptAssembler combines static instructions with per-document state
type PromptAssembler struct {
	contextBank string
}

// NewPromptAssembler creates an assembler that injects the rendered context bank
func NewPromptAssembler(contextBank string) *PromptAssembler {
	return &PromptAssembler{contextBank: contextBank}
}

// Build renders both prompts
func (pa *PromptAssembler) Build(doc models.Document, notes string, tone string, recent []models.Shape) (Prompts, error) {
	shapes := make([]string, len(models.Shapes))
	for i, s := range models.Shapes {
		shapes[i] = string(s)
	}

	system, err := prompts.System(prompts.SystemData{
		Shapes:      shapes,
		ContextBank: pa.contextBank,
	})
	if err != nil {
		return Prompts{}, fmt.Errorf("failed to build system prompt: %w", err)
	}

	categories := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = string(c)
	}

	user, err := prompts.User(prompts.UserData{
		Filename:        doc.Name,
		ToneLine:        ToneLine(tone),
		ShapeLine:       ShapeLine(recent),
		NotesSection:    NotesSection(notes),
		CategoryChoices: strings.Join(categories, "|"),
	})
	if err != nil {
		return Prompts{}, fmt.Errorf("failed to build user prompt: %w", err)
	}

	return Prompts{System: system, User: user}, nil
}

// ForbiddenShapes returns the recently used shapes that are in the catalog,
// de-duplicated, in history order. Unknown entries are ignored.
func ForbiddenShapes(recent []models.Shape) []models.Shape {
	seen := make(map[models.Shape]bool)
	var forbidden []models.Shape
	for _, s := range recent {
		if !s.IsValid() || seen[s] {
			continue
		}
		seen[s] = true
		forbidden = append(forbidden, s)
	}
	return forbidden
}

// AllowedShapes returns the catalog minus the forbidden shapes, in catalog order
func AllowedShapes(recent []models.Shape) []models.Shape {
	forbidden := make(map[models.Shape]bool)
	for _, s := range ForbiddenShapes(recent) {
		forbidden[s] = true
	}
	var allowed []models.Shape
	for _, s := range models.Shapes {
		if !forbidden[s] {
			allowed = append(allowed, s)
		}
	}
	return allowed
}

// ShapeLine tells the model which shapes it may use
func ShapeLine(recent []models.Shape) string {
	forbidden := ForbiddenShapes(recent)
	allowed := AllowedShapes(recent)
	if len(forbidden) == 0 || len(allowed) == 0 {
		return fmt.Sprintf("Pick any shape from the list of %d post shapes in the system prompt.", len(models.Shapes))
	}

	var b strings.Builder
	b.WriteString("Recently used shapes (do NOT use any of these):\n")
	for _, s := range forbidden {
		fmt.Fprintf(&b, "- %q\n", string(s))
	}
	b.WriteString("Pick a shape NOT in this list. Available shapes:\n")
	for _, s := range allowed {
		fmt.Fprintf(&b, "- %q\n", string(s))
	}
	b.WriteString("Work through the full catalog before repeating any shape.")
	return b.String()
}

// NotesSection either quotes the author's notes or asks for generated reflections
func NotesSection(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return "No reflection notes provided. Use the certificate details and filename, " +
			"and generate 1-2 plausible, proportionate reflections to make the post feel personal."
	}
	return "The student's rough reflection notes:\n\"\"\"\n" + notes + "\n\"\"\"\n" +
		"Weave these into the post naturally. They reveal what the student actually " +
		"thought and felt. Prioritise them over generated reflections; the student's " +
		"own words are always better."
}
