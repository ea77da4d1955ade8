// ABOUTME: Embedded prompt templates for the post generator
// ABOUTME: Copy lives in markdown templates; Go code only fills the injection points
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed system.md.tmpl user.md.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"add": func(a, b int) int { return a + b }}).
		ParseFS(templateFS, "*.tmpl"),
)

// SystemData fills the system prompt template
type SystemData struct {
	Shapes      []string
	ContextBank string
}

// UserData fills the user prompt template
type UserData struct {
	Filename        string
	ToneLine        string
	ShapeLine       string
	NotesSection    string
	CategoryChoices string
}

// System renders the system prompt
func System(data SystemData) (string, error) {
	return render("system.md.tmpl", data)
}

// User renders the user prompt
func User(data UserData) (string, error) {
	return render("user.md.tmpl", data)
}

func render(name string, data interface{}) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}
