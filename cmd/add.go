package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/config/models"
	"cccm/config/validation"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("url", "u", "", "Base URL written to baseURL")
	addCmd.Flags().StringP("key", "k", "", "API key written to apiKey")
	addCmd.Flags().StringP("desc", "d", "", "Optional description")
}

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new profile",
	Long: `Add a new profile

Interactive (missing fields are prompted for):
  cccm add

With flags:
  cccm add work --url https://api.anthropic.com --key sk-ant-xxx --desc "Work account"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers := ui.ProfileAnswers{}
		if len(args) == 1 {
			answers.Name = args[0]
		}
		answers.BaseURL, _ = cmd.Flags().GetString("url")
		answers.APIKey, _ = cmd.Flags().GetString("key")
		answers.Description, _ = cmd.Flags().GetString("desc")

		if needsPrompt(answers) && isTerminal() {
			if err := ui.PromptProfile(&answers, true); err != nil {
				return err
			}
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		_, err = m.Update(func(store *models.Store) error {
			return config.Add(store, answers.Name, answers.BaseURL, answers.APIKey, answers.Description)
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if warning := validation.NewValidator().URLWarning(answers.BaseURL); warning != "" {
			ui.Warning(cmd.ErrOrStderr(), "%s", warning)
		}
		ui.Success(out, "Added profile: %s", validation.Trimmed(answers.Name))
		fmt.Fprintf(out, "Switch to it with: cccm switch %s\n", validation.Trimmed(answers.Name))
		return nil
	},
}

// needsPrompt reports whether a required field is still missing
func needsPrompt(a ui.ProfileAnswers) bool {
	return validation.Trimmed(a.Name) == "" ||
		validation.Trimmed(a.BaseURL) == "" ||
		validation.Trimmed(a.APIKey) == ""
}
