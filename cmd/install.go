package cmd

import (
	"fmt"
	"os"
	"runtime"

	"cccm/config"
	"cccm/internal/envvars"
	"cccm/internal/shell"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().String("rc", "", "Shell rc file to update (default from $SHELL)")
	installCmd.Flags().Bool("print", false, "Print the hook instead of installing it")
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the shell hook that loads the current profile's environment",
	Long: `Enable the environment step on Unix: every switch then writes
ANTHROPIC_BASE_URL and ANTHROPIC_AUTH_TOKEN to an export script, and a hook in
~/.bashrc or ~/.zshrc sources it in new shells.

Running install again replaces the existing hook. On Windows the variables are
written to the user registry instead and no hook is needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runtime.GOOS == "windows" {
			return fmt.Errorf("shell integration is not needed on Windows; set set_env = true in settings.toml instead")
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		generator := shell.NewGenerator(m.EnvFilePath())
		out := cmd.OutOrStdout()

		if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
			hook, err := generator.Generate()
			if err != nil {
				return err
			}
			fmt.Fprint(out, hook)
			return nil
		}

		rcFile, _ := cmd.Flags().GetString("rc")
		if rcFile == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %w", err)
			}
			rcFile, err = shell.RCFile(homeDir, os.Getenv("SHELL"))
			if err != nil {
				return fmt.Errorf("%w; rerun with --rc <file> or add the output of 'cccm install --print' yourself", err)
			}
		}

		replaced, err := generator.Install(rcFile)
		if err != nil {
			return err
		}

		settings := m.Settings()
		if !settings.EnvEnabled() {
			enabled := true
			settings.SetEnv = &enabled
			if err := config.SaveSettings(m.SettingsPath(), settings); err != nil {
				return err
			}
			ui.Success(out, "Enabled set_env in %s", m.SettingsPath())
		}

		// Seed the script so the hook works before the next switch
		if name, profile, ok := config.CurrentProfile(m.Load()); ok {
			if err := envvars.Default(m.EnvFilePath()).Write(profileVars(settings, profile.BaseURL, profile.APIKey)); err != nil {
				return config.Errorf(config.KindEnvWrite, "write env file", m.EnvFilePath(), err)
			}
			fmt.Fprintf(out, "Wrote environment for profile '%s' to %s\n", name, m.EnvFilePath())
		}

		if replaced {
			ui.Success(out, "Updated shell hook in %s", rcFile)
		} else {
			ui.Success(out, "Installed shell hook in %s", rcFile)
		}
		ui.Hint(out, "Run 'source %s' or open a new terminal", rcFile)
		return nil
	},
}
