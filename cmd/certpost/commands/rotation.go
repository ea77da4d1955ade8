// ABOUTME: Rotation commands inspect and clear the post shape history
// ABOUTME: The history decides which shapes the next post may not use
package commands

import (
	"fmt"

	"github.com/harper/certpost/internal/core"
	"github.com/spf13/cobra"
)

// NewRotationCmd creates the rotation command group
func NewRotationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotation",
		Short: "Inspect or reset the post shape rotation",
		Long: `Every post follows one of five shapes. The most recently used shapes
are remembered so consecutive posts do not read alike; the next post
must use a shape outside that list.`,
	}

	cmd.AddCommand(newRotationShowCmd())
	cmd.AddCommand(newRotationResetCmd())

	return cmd
}

func newRotationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show recently used shapes and what is available next",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.Close()

			recent, err := e.tracker.Recent()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recent) == 0 {
				fmt.Fprintln(out, "No shapes used yet; the next post may use any shape.")
				return nil
			}

			fmt.Fprintf(out, "Recently used (oldest first, max %d):\n", e.tracker.Limit())
			for i, s := range recent {
				fmt.Fprintf(out, "  %d. %s\n", i+1, s)
			}
			fmt.Fprintln(out, "\nAvailable next:")
			allowed := core.AllowedShapes(recent)
			if len(allowed) == 0 || len(core.ForbiddenShapes(recent)) == 0 {
				fmt.Fprintln(out, "  any shape")
				return nil
			}
			for _, s := range allowed {
				fmt.Fprintf(out, "  - %s\n", s)
			}
			return nil
		},
	}
}

func newRotationResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the shape history",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.tracker.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rotation history cleared")
			return nil
		},
	}
}
