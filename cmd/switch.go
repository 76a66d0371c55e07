package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/config/models"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(switchCmd)
}

var switchCmd = &cobra.Command{
	Use:     "switch <name>",
	Aliases: []string{"use"},
	Short:   "Make a profile current",
	Long: `Write the profile's base URL and API key into the Claude Code config file
and mark it as current.

The existing config file is backed up first as config.backup.<time>.json next to
it; every other key in the file is preserved. When set_env is enabled in
settings.toml (the default on Windows), ANTHROPIC_BASE_URL and
ANTHROPIC_AUTH_TOKEN are persisted too; if that fails the config file is
restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		m, err := newManager()
		if err != nil {
			return err
		}

		profile, err := config.Get(m.Load(), name)
		if err != nil {
			return err
		}

		s := newSwitcher(m)
		result, err := s.Switch(profile)
		if err != nil {
			return err
		}

		// Only mark current once the target file has been written; if that
		// fails the target goes back to match the store
		if _, err := m.Update(func(store *models.Store) error {
			return config.SetCurrent(store, name)
		}); err != nil {
			if rbErr := s.Revert(result); rbErr != nil {
				return fmt.Errorf("%w; restoring %s also failed: %v", err, result.Path, rbErr)
			}
			return err
		}

		out := cmd.OutOrStdout()
		ui.Success(out, "Switched to profile: %s", name)
		fmt.Fprintf(out, "Config:  %s\n", result.Path)
		if result.BackupPath != "" {
			fmt.Fprintf(out, "Backup:  %s\n", result.BackupPath)
		}
		if result.EnvApplied {
			baseURLVar, tokenVar := m.Settings().EnvNames()
			fmt.Fprintf(out, "Env:     %s, %s updated\n", baseURLVar, tokenVar)
			ui.Hint(out, "Open a new terminal for the environment variables to take effect")
		}
		return nil
	},
}
