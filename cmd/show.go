package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("reveal", false, "Print the API key unmasked")
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		store := m.Load()
		profile, err := config.Get(store, args[0])
		if err != nil {
			return err
		}

		key := utils.MaskAPIKey(profile.APIKey)
		if reveal, _ := cmd.Flags().GetBool("reveal"); reveal {
			key = profile.APIKey
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:        %s\n", args[0])
		fmt.Fprintf(out, "Base URL:    %s\n", profile.BaseURL)
		fmt.Fprintf(out, "API Key:     %s\n", key)
		if profile.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", profile.Description)
		}
		if profile.Created != "" {
			fmt.Fprintf(out, "Created:     %s\n", profile.Created)
		}
		if store.CurrentName() == args[0] {
			fmt.Fprintln(out, "Current:     yes")
		}
		return nil
	},
}
