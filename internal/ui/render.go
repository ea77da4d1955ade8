// ABOUTME: Terminal rendering for generated posts and end-of-run summaries
// ABOUTME: Falls back to plain text when the markdown renderer fails
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/harper/certpost/internal/models"
)

const rule = "=================================================="

var (
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// RenderPost renders the post body as terminal markdown wrapped at width
func RenderPost(body string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := renderer.Render(body)
	if err != nil {
		return body
	}
	return out
}

// RenderOutcome describes one archived document
func RenderOutcome(outcome *models.ArchiveOutcome, root string) string {
	var b strings.Builder
	meta := outcome.Metadata

	if outcome.Flag != nil {
		b.WriteString(warnStyle.Render("  LOW CONFIDENCE: this post may be vague"))
		b.WriteString("\n")
		if meta.FlagReason != "" {
			fmt.Fprintf(&b, "  Reason: %s\n", meta.FlagReason)
		}
	}

	shape := string(meta.ShapeUsed)
	if shape == "" {
		shape = "unreported"
	}
	fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(fmt.Sprintf("[%d chars | shape: %s]", utf8.RuneCountInString(outcome.Body), shape)))

	dest := outcome.Destination
	if rel, err := filepath.Rel(root, outcome.Destination); err == nil {
		dest = filepath.Join(filepath.Base(root), rel)
	}
	fmt.Fprintf(&b, "  [%s confidence] Sorted → %s%c\n", meta.Confidence, dest, filepath.Separator)
	fmt.Fprintf(&b, "  Post saved → %s\n", outcome.PostPath)
	return b.String()
}

// RenderPreview frames a rendered post between rules
func RenderPreview(body string, width int) string {
	return rule + "\n" + strings.TrimRight(RenderPost(body, width), "\n") + "\n" + rule + "\n"
}

// RenderSummary lists failures and flagged posts at the end of a run
func RenderSummary(report *models.BatchReport) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Done!"))
	fmt.Fprintf(&b, " %s\n", okStyle.Render(fmt.Sprintf("%d archived", len(report.Archived))))

	if len(report.Failed) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d document(s) failed and were left in the inbox:", len(report.Failed))))
		b.WriteString("\n")
		for _, f := range report.Failed {
			fmt.Fprintf(&b, "  • %s\n    Error: %v\n", f.Document.Name, f.Err)
		}
	}

	if len(report.Flags) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d cert(s) need your attention:", len(report.Flags))))
		b.WriteString("\n")
		b.WriteString("These posts might be vague. Add a .notes.txt with some context.\n\n")
		for _, f := range report.Flags {
			fmt.Fprintf(&b, "  • %s\n", f.OriginalFilename)
			fmt.Fprintf(&b, "    Reason: %s\n", f.FlagReason)
			fmt.Fprintf(&b, "    Location: %s\n\n", f.DestinationPath)
		}
	}
	return b.String()
}
