// ABOUTME: Process command turns inbox certificates into archived posts
// ABOUTME: One named document, or every pending document in filename order
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/harper/certpost/internal/intake"
	"github.com/harper/certpost/internal/models"
	"github.com/harper/certpost/internal/ui"
	"github.com/spf13/cobra"
)

const separator = "──────────────────────────────────────────────────"

type processOptions struct {
	tone      string
	match     string
	noInput   bool
	noPreview bool
}

// NewProcessCmd creates the process command
func NewProcessCmd() *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process [document]",
		Short: "Generate posts for certificates in the inbox",
		Long: `Generate a LinkedIn post for one certificate, or for every certificate
waiting in inbox/.

Notes are read from <name>.notes.txt beside the certificate. When there
are none you are asked for quick context (Enter to skip) unless
--no-input is set or stdin is not a terminal.

Each certificate, its notes and post.md are moved to
done/<category>/<short_name>/. A certificate whose generation fails
stays in the inbox and the remaining certificates are still processed.`,
		Example: `  # Process everything in inbox/
  certpost process

  # One certificate, casual tone
  certpost process bls-2025.pdf --tone casual

  # Only BLS certificates, no prompts
  certpost process --match 'bls-*' --no-input`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.tone, "tone", "", "Post tone: casual, formal or default (default $CERTPOST_TONE)")
	cmd.Flags().StringVar(&opts.match, "match", "", "Only process files whose name matches this glob")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Never prompt for notes")
	cmd.Flags().BoolVar(&opts.noPreview, "no-preview", false, "Do not print generated posts")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string, opts processOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.cfg.EnsureDirs(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var docs []models.Document
	if len(args) == 1 {
		doc, err := intake.Find(e.cfg.InboxDir(), args[0])
		if err != nil {
			return err
		}
		docs = []models.Document{doc}
	} else {
		match, err := intake.CompileMatch(opts.match)
		if err != nil {
			return err
		}
		docs, err = intake.Scan(e.cfg.InboxDir(), match)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(out, "inbox/ is empty. Drop some certificates in there first!")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Supported: %s\n", strings.Join(intake.SupportedExtensions(), ", "))
			fmt.Fprintf(out, "Add notes: <filename>%s (e.g. bls%s for bls.pdf)\n", models.NotesSuffix, models.NotesSuffix)
			return nil
		}
		fmt.Fprintf(out, "Found %d certificate(s) in inbox/\n", len(docs))
	}

	pipeline, err := e.buildPipeline(ctx)
	if err != nil {
		return err
	}

	tone := opts.tone
	if tone == "" {
		tone = e.cfg.Tone
	}

	interactive := !opts.noInput && isTerminal(cmd.InOrStdin())
	notesFor := func(ctx context.Context, doc models.Document) (string, error) {
		fmt.Fprintf(out, "\n%s\n  Certificate: %s\n", separator, doc.Name)

		notes, _, err := intake.ReadNotes(doc)
		if err != nil {
			return "", err
		}
		if notes != "" {
			fmt.Fprintf(out, "  Notes: found (%d chars)\n", len([]rune(notes)))
			return notes, nil
		}

		fmt.Fprintln(out, "  Notes: none")
		if !interactive {
			return "", nil
		}
		typed, err := ui.PromptNotes(ctx, doc.Name, cmd.InOrStdin(), out)
		if errors.Is(err, ui.ErrInterrupted) {
			stop()
		}
		return typed, err
	}

	observe := func(doc models.Document, outcome *models.ArchiveOutcome, err error) {
		if err != nil {
			fmt.Fprintf(out, "  Error: %v\n", err)
			return
		}
		if !opts.noPreview && !quiet {
			fmt.Fprintln(out)
			fmt.Fprint(out, ui.RenderPreview(outcome.Body, 80))
		}
		fmt.Fprint(out, ui.RenderOutcome(outcome, e.cfg.DoneDir()))
	}

	report := pipeline.ProcessAll(ctx, docs, tone, notesFor, observe)

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("━", 50))
	fmt.Fprint(out, ui.RenderSummary(report))

	return batchError(ctx, report)
}

// batchError reports a non-zero exit when any document failed or the run was interrupted
func batchError(ctx context.Context, report *models.BatchReport) error {
	if len(report.Failed) == 1 {
		return report.Failed[0].Err
	}
	if len(report.Failed) > 1 {
		errs := make([]error, 0, len(report.Failed))
		for _, f := range report.Failed {
			errs = append(errs, fmt.Errorf("%s: %w", f.Document.Name, f.Err))
		}
		return fmt.Errorf("%d documents failed: %w", len(report.Failed), errors.Join(errs...))
	}
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted")
	}
	return nil
}
