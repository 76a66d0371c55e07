package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/internal/envvars"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env [name]",
	Short: "Print export statements for a profile",
	Long: `Print shell export statements for the base URL and API key of a profile
(default: the current profile), for use with eval:

  eval "$(cccm env)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		store := m.Load()
		name := store.CurrentName()
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no current profile; pass a profile name or run 'cccm switch <name>'")
		}

		profile, err := config.Get(store, name)
		if err != nil {
			return err
		}

		vars := profileVars(m.Settings(), profile.BaseURL, profile.APIKey)
		if err := envvars.ValidateNames(vars); err != nil {
			return config.Errorf(config.KindValidation, "check settings", m.SettingsPath(), err)
		}

		fmt.Fprint(cmd.OutOrStdout(), envvars.ExportLines(vars))
		return nil
	},
}

// profileVars pairs a profile's values with the configured variable names
func profileVars(settings *config.Settings, baseURL, apiKey string) []envvars.Var {
	baseURLVar, tokenVar := settings.EnvNames()
	return []envvars.Var{
		{Name: baseURLVar, Value: baseURL},
		{Name: tokenVar, Value: apiKey},
	}
}
