package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/config/models"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a profile",
	Long: `Delete a profile from the store.

Deleting the current profile clears the current marker; the Claude Code
config file is left as it is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		m, err := newManager()
		if err != nil {
			return err
		}

		if _, err := config.Get(m.Load(), name); err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if !isTerminal() {
				return fmt.Errorf("refusing to delete '%s' without confirmation; pass --yes", name)
			}
			confirmed, err := ui.PromptConfirmation(fmt.Sprintf("Delete profile '%s'?", name))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}

		wasCurrent := false
		_, err = m.Update(func(store *models.Store) error {
			wasCurrent = store.CurrentName() == name
			return config.Delete(store, name)
		})
		if err != nil {
			return err
		}

		ui.Success(cmd.OutOrStdout(), "Deleted profile: %s", name)
		if wasCurrent {
			ui.Hint(cmd.OutOrStdout(), "No profile is current now; the Claude Code config still holds its values")
		}
		return nil
	},
}
