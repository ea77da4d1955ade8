// ABOUTME: Version command printing build information
// ABOUTME: Also shows the default model so bug reports say what generated a post
package commands

import (
	"fmt"

	"github.com/harper/certpost/internal/llm"
	"github.com/spf13/cobra"
)

// VersionInfo is stamped into the binary at build time
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

var versionInfo = VersionInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersion records build information from main
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Print the certpost version, the commit and build date, and the default model.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, versionInfo.Version)
				return
			}
			fmt.Fprintf(out, "certpost %s\n", versionInfo.Version)
			fmt.Fprintf(out, "Commit: %s\n", versionInfo.Commit)
			fmt.Fprintf(out, "Built:  %s\n", versionInfo.Date)
			fmt.Fprintf(out, "Model:  %s (%s)\n", llm.DefaultGeminiModel, llm.ProviderGemini)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
