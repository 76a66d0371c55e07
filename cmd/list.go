package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all profiles",
	Long:    "List all saved profiles with masked API keys",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		store := m.Load()
		out := cmd.OutOrStdout()

		names := config.Names(store)
		if len(names) == 0 {
			fmt.Fprintln(out, "No profiles yet. Add one with: cccm add")
			return nil
		}

		current := store.CurrentName()

		fmt.Fprintln(out, "Profiles:")
		for _, name := range names {
			profile := store.Profiles[name]

			// Mark current profile with *
			marker := " "
			if name == current {
				marker = "*"
			}

			fmt.Fprintf(out, "%s %s: %s (Key: %s)", marker, name, profile.BaseURL, utils.MaskAPIKey(profile.APIKey))
			if profile.Description != "" {
				fmt.Fprintf(out, " - %s", utils.Truncate(profile.Description, 40))
			}
			fmt.Fprintln(out)
		}

		if current != "" {
			fmt.Fprintf(out, "\n* indicates the current profile\n")
		}
		return nil
	},
}
