// ABOUTME: Loads the optional context bank and renders it for the system prompt
// ABOUTME: Event types render in file order so output is stable run to run
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/certpost/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultContextBankFile is the context bank filename under the project home
const DefaultContextBankFile = "context.json"

// LoadContextBank reads a JSON or YAML context bank. A missing file is not an
// error: it returns nil, nil.
func LoadContextBank(path string) (*models.ContextBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read context bank: %w", err)
	}

	var bank models.ContextBank
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &bank)
	default:
		err = json.Unmarshal(data, &bank)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse context bank %s: %w", path, err)
	}
	return &bank, nil
}

// RenderContextBank formats the bank as a prompt section. Nil or empty banks render as "".
func RenderContextBank(bank *models.ContextBank) string {
	if bank.Len() == 0 {
		return ""
	}

	title := cases.Title(language.English)
	var b strings.Builder
	b.WriteString("\n## Context bank: typical experiences by event type\n")
	b.WriteString("Use this to judge which reflections are plausible. Do NOT copy\n")
	b.WriteString("these verbatim; adapt them to the specific certificate.\n\n")

	for pair := bank.EventTypes.Oldest(); pair != nil; pair = pair.Next() {
		info := pair.Value
		fmt.Fprintf(&b, "### %s\n", title.String(strings.ReplaceAll(pair.Key, "_", " ")))
		fmt.Fprintf(&b, "%s\n", info.Description)
		b.WriteString("Typical experiences:\n")
		for _, exp := range info.TypicalExperiences {
			fmt.Fprintf(&b, "  - %s\n", exp)
		}
		b.WriteString("Safe framing phrases:\n")
		for _, phrase := range info.SafeFraming {
			fmt.Fprintf(&b, "  - %q\n", phrase)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
