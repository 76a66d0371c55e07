package cmd

import (
	"fmt"

	"cccm/config"
	"cccm/internal/ui"
	"cccm/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current profile and the live Claude Code config",
	Long: `Show which profile is current and what the Claude Code config file
actually contains, flagging any drift between the two.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		store := m.Load()

		name, profile, ok := config.CurrentProfile(store)
		if ok {
			fmt.Fprintf(out, "Current profile: %s\n", name)
		} else {
			fmt.Fprintln(out, "Current profile: (none)")
		}
		fmt.Fprintf(out, "Store:           %s\n", m.StorePath())

		target, err := newSwitcher(m).Current()
		if err != nil {
			if config.KindOf(err) == config.KindNotFound {
				fmt.Fprintln(out, "Claude config:   not found")
				return nil
			}
			return err
		}

		fmt.Fprintf(out, "Claude config:   %s\n", target.Path)
		fmt.Fprintf(out, "  baseURL:       %s\n", target.BaseURL)
		fmt.Fprintf(out, "  apiKey:        %s\n", utils.MaskAPIKey(target.APIKey))

		if ok && (target.BaseURL != profile.BaseURL || target.APIKey != profile.APIKey) {
			ui.Warning(cmd.ErrOrStderr(), "Claude config differs from profile '%s'; run 'cccm switch %s' to reapply", name, name)
		}
		return nil
	},
}
