package cmd

import (
	"cccm/config"
	"cccm/config/models"
	"cccm/config/validation"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("url", "u", "", "New base URL")
	editCmd.Flags().StringP("key", "k", "", "New API key")
	editCmd.Flags().StringP("desc", "d", "", "New description")
}

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit an existing profile",
	Long: `Edit an existing profile. The name cannot be changed.

Only the fields given as flags are changed:
  cccm edit work --key sk-ant-new

Without flags, in a terminal, every field is prompted for with its current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		m, err := newManager()
		if err != nil {
			return err
		}

		existing, err := config.Get(m.Load(), name)
		if err != nil {
			return err
		}

		answers := ui.ProfileAnswers{
			Name:        name,
			BaseURL:     existing.BaseURL,
			APIKey:      existing.APIKey,
			Description: existing.Description,
		}

		flags := cmd.Flags()
		if !flags.Changed("url") && !flags.Changed("key") && !flags.Changed("desc") && isTerminal() {
			if err := ui.PromptEdit(&answers); err != nil {
				return err
			}
		}
		if flags.Changed("url") {
			answers.BaseURL, _ = flags.GetString("url")
		}
		if flags.Changed("key") {
			answers.APIKey, _ = flags.GetString("key")
		}
		if flags.Changed("desc") {
			answers.Description, _ = flags.GetString("desc")
		}

		_, err = m.Update(func(store *models.Store) error {
			return config.Edit(store, name, answers.BaseURL, answers.APIKey, answers.Description)
		})
		if err != nil {
			return err
		}

		if warning := validation.NewValidator().URLWarning(validation.Trimmed(answers.BaseURL)); warning != "" {
			ui.Warning(cmd.ErrOrStderr(), "%s", warning)
		}
		ui.Success(cmd.OutOrStdout(), "Updated profile: %s", name)

		store := m.Load()
		if store.CurrentName() == name {
			ui.Hint(cmd.OutOrStdout(), "This is the current profile; run 'cccm switch %s' to apply the changes", name)
		}
		return nil
	},
}
