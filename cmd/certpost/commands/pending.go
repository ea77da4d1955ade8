// ABOUTME: Pending command lists certificates waiting in the inbox
// ABOUTME: Shows processing order and whether each has notes
package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harper/certpost/internal/config"
	"github.com/harper/certpost/internal/intake"
	"github.com/spf13/cobra"
)

// NewPendingCmd creates the pending command
func NewPendingCmd() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List certificates waiting in the inbox",
		Long: `List the certificates in inbox/ in the order 'certpost process' would
handle them, with a preview of each one's notes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runPending(cmd, cfg, match)
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Only list files whose name matches this glob")
	return cmd
}

func runPending(cmd *cobra.Command, cfg *config.Config, match string) error {
	g, err := intake.CompileMatch(match)
	if err != nil {
		return err
	}
	docs, err := intake.Scan(cfg.InboxDir(), g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No certificates pending.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tADDED\tNOTES")
	for _, doc := range docs {
		added := "-"
		if info, err := os.Stat(doc.Path); err == nil {
			added = formatTime(info.ModTime())
		}

		notes, found, err := intake.ReadNotes(doc)
		label := "none"
		switch {
		case err != nil:
			label = "unreadable"
		case notes != "":
			label = truncate(notes, 40)
		case found:
			label = "(empty file)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.Name, added, label)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d certificate(s) pending\n", len(docs))
	return nil
}
