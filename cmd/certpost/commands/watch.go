// ABOUTME: Watch command processes certificates as they land in the inbox
// ABOUTME: Runs until interrupted, then prints the run summary
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/certpost/internal/intake"
	"github.com/harper/certpost/internal/models"
	"github.com/harper/certpost/internal/ui"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var tone, match string
	var process bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process certificates as they arrive in the inbox",
		Long: `Watch inbox/ and generate a post for each certificate once it has
finished copying. Notes must already be beside the certificate; there
is no interactive prompt. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, tone, match, process)
		},
	}

	cmd.Flags().StringVar(&tone, "tone", "", "Post tone: casual, formal or default (default $CERTPOST_TONE)")
	cmd.Flags().StringVar(&match, "match", "", "Only process files whose name matches this glob")
	cmd.Flags().BoolVar(&process, "process-existing", false, "Process certificates already in the inbox before watching")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, tone, match string, existing bool) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.cfg.EnsureDirs(); err != nil {
		return err
	}
	g, err := intake.CompileMatch(match)
	if err != nil {
		return err
	}
	pipeline, err := e.buildPipeline(ctx)
	if err != nil {
		return err
	}
	if tone == "" {
		tone = e.cfg.Tone
	}

	out := cmd.OutOrStdout()
	report := &models.BatchReport{}
	record := func(doc models.Document, outcome *models.ArchiveOutcome, err error) {
		if err != nil {
			report.Fail(doc, err)
			fmt.Fprintf(out, "  %s: %v\n", doc.Name, err)
			return
		}
		report.Add(outcome)
		fmt.Fprintf(out, "  %s\n", doc.Name)
		fmt.Fprint(out, ui.RenderOutcome(outcome, e.cfg.DoneDir()))
	}

	if existing {
		docs, err := intake.Scan(e.cfg.InboxDir(), g)
		if err != nil {
			return err
		}
		pipeline.ProcessAll(ctx, docs, tone, nil, record)
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", e.cfg.InboxDir())
	watcher := intake.NewWatcher(e.cfg.InboxDir(), intake.DefaultSettle, g, e.logger)
	err = watcher.Run(ctx, func(ctx context.Context, doc models.Document) {
		pipeline.ProcessAll(ctx, []models.Document{doc}, tone, nil, record)
	})

	fmt.Fprintln(out)
	fmt.Fprint(out, ui.RenderSummary(report))
	return err
}
