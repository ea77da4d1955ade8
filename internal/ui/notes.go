// ABOUTME: Interactive one-line prompt for context when a document has no notes
// ABOUTME: Enter submits, Esc skips, Ctrl+C interrupts the run
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user presses Ctrl+C at the notes prompt
var ErrInterrupted = errors.New("interrupted")

type notesModel struct {
	input       textinput.Model
	document    string
	value       string
	submitted   bool
	interrupted bool
}

func newNotesModel(document string) notesModel {
	ti := textinput.New()
	ti.Placeholder = "Enter to skip"
	ti.Prompt = "  > "
	ti.CharLimit = 2000
	ti.Width = 72
	ti.Focus()

	return notesModel{input: ti, document: document}
}

func (m notesModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m notesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.interrupted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m notesModel) View() string {
	if m.submitted || m.interrupted {
		return ""
	}
	return fmt.Sprintf("  Any quick context for %s?\n%s\n", m.document, m.input.View())
}

// PromptNotes asks for free-text context about a document. An empty answer means no notes.
func PromptNotes(ctx context.Context, document string, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newNotesModel(document),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("notes prompt failed: %w", err)
	}

	m, ok := final.(notesModel)
	if !ok {
		return "", fmt.Errorf("notes prompt returned %T", final)
	}
	if m.interrupted {
		return "", ErrInterrupted
	}
	return m.value, nil
}
