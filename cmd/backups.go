package cmd

import (
	"fmt"
	"path/filepath"

	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupsCmd)
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
	backupsCmd.AddCommand(backupsPruneCmd)
	backupsPruneCmd.Flags().IntP("keep", "k", 5, "Number of newest backups to keep")
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage backups of the Claude Code config",
	Long: `Every switch copies the Claude Code config to config.backup.<time>.json
before rewriting it. Backups are never deleted automatically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return backupsListCmd.RunE(cmd, args)
	},
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		path, backups, err := newSwitcher(m).Backups()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(backups) == 0 {
			fmt.Fprintf(out, "No backups of %s\n", path)
			return nil
		}

		fmt.Fprintf(out, "Backups of %s:\n", path)
		for _, b := range backups {
			fmt.Fprintf(out, "  %s  %s\n", b.Taken.Local().Format("2006-01-02 15:04:05"), filepath.Base(b.Path))
		}
		return nil
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore [backup]",
	Short: "Restore the Claude Code config from a backup (default: newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		s := newSwitcher(m)

		var used string
		if len(args) == 1 {
			used, err = s.Restore(args[0])
		} else {
			used, err = s.RestoreLatest()
		}
		if err != nil {
			return err
		}

		ui.Success(cmd.OutOrStdout(), "Restored Claude config from %s", filepath.Base(used))
		ui.Hint(cmd.OutOrStdout(), "The current profile marker is unchanged; check 'cccm status'")
		return nil
	},
}

var backupsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		removed, err := newSwitcher(m).Prune(keep)
		if err != nil {
			return err
		}

		ui.Success(cmd.OutOrStdout(), "Removed %d backup(s)", len(removed))
		return nil
	},
}
