// ABOUTME: Root command and global flags for the certpost CLI
// ABOUTME: Wires every subcommand into one cobra tree
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	home    string
)

const banner = `
 ██████ ███████ ██████  ████████ ██████   ██████  ███████ ████████
██      ██      ██   ██    ██    ██   ██ ██    ██ ██         ██
██      █████   ██████     ██    ██████  ██    ██ ███████    ██
██      ██      ██   ██    ██    ██      ██    ██      ██    ██
 ██████ ███████ ██   ██    ██    ██       ██████  ███████    ██
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certpost",
		Short: "Turn certificates into LinkedIn posts",
		Long: banner + `
Turn certificates and course completions into LinkedIn posts.

Drop certificates (PNG, JPG, WEBP, HEIC or PDF) into inbox/, optionally
with a <name>.notes.txt beside each one, then run 'certpost process'.
Each post is written next to its certificate under
done/<category>/<short_name>/, and low-confidence posts are listed at
the end so you can add context and try again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors and results")
	cmd.PersistentFlags().StringVar(&home, "home", "", "Workspace holding inbox/ and done/ (default $CERTPOST_HOME or .)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewPendingCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewRotationCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
