// ABOUTME: Sync commands for Charm cloud synchronization of the shape history
// ABOUTME: Provides status, immediate sync and a local wipe
package commands

import (
	"fmt"

	"github.com/harper/certpost/internal/config"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization",
		Long: `Manage synchronization with Charm cloud.

With CERTPOST_ROTATION_BACKEND=charm the shape history lives in a Charm
KV database instead of the local last_shape.txt file, so every machine
linked to the same Charm account rotates through the same shapes.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncWipeCmd())

	return cmd
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the shape history is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Rotation backend: %s\n", cfg.RotationBackend)
			if cfg.RotationBackend != config.BackendCharm {
				fmt.Fprintf(out, "History file: %s\n", cfg.ShapeFile())
				fmt.Fprintln(out, "Set CERTPOST_ROTATION_BACKEND=charm to sync across devices")
				return nil
			}

			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			st := client.Status()
			fmt.Fprintf(out, "Host: %s\n", st.Host)
			fmt.Fprintf(out, "Database: %s\n", st.DBName)
			fmt.Fprintf(out, "Auto sync: %t\n", st.AutoSync)
			if !st.Connected {
				fmt.Fprintln(out, "Account: not linked (check your SSH keys and CHARM_HOST)")
				return nil
			}
			fmt.Fprintf(out, "Account: %s\n", st.UserID)
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Push and pull the shape history now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Syncing %s with %s\n", cfg.CharmDBName, cfg.CharmHost)
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(out, "Shape history is up to date")
			return nil
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete the local copy of the shape history database",
		Long: `Delete the local Charm database that holds the shape history.

The copy on the Charm server is kept and is pulled again on the next sync.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !confirm {
				fmt.Fprintln(out, "Refusing to delete the local shape history without --confirm")
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to delete local database: %w", err)
			}
			fmt.Fprintf(out, "Deleted local copy of %s\n", cfg.CharmDBName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Really delete the local database")
	return cmd
}
