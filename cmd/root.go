package cmd

import (
	"io"
	"log"
	"os"

	"cccm/config"
	"cccm/config/switcher"
	"cccm/internal/envvars"
	"cccm/internal/tui"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// Persistent flags
var (
	storePath    string
	settingsPath string
	verbose      bool
)

// isTerminal gates interactive prompts; tests replace it
var isTerminal = ui.IsTerminal

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "cccm",
	Short: "Claude config profile manager",
	Long: `Manage named Claude Code connection profiles (base URL + API key) and
switch between them by rewriting the Claude Code config file.

Run without arguments in a terminal to open the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal() {
			return cmd.Help()
		}

		m, err := newManager()
		if err != nil {
			return err
		}
		return tui.Run(m, newSwitcher(m))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the profile store (default ~/claude-configs.cccm)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings.toml (default $XDG_CONFIG_HOME/cccm/settings.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print diagnostics to stderr")
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`cccm {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}

// newManager builds a Manager from the persistent flags
func newManager() (*config.Manager, error) {
	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "cccm: ", 0)
	}

	return config.NewManager(config.Options{
		StorePath:    storePath,
		SettingsPath: settingsPath,
		Logger:       logger,
	})
}

// newSwitcher builds a Switcher over the manager's target candidates, with
// the env step attached when settings enable it
func newSwitcher(m *config.Manager) *switcher.Switcher {
	var opts []switcher.Option
	if m.Settings().EnvEnabled() {
		baseURLVar, tokenVar := m.Settings().EnvNames()
		opts = append(opts, switcher.WithEnv(envvars.Default(m.EnvFilePath()), baseURLVar, tokenVar))
	}
	return switcher.New(m.TargetCandidates(), opts...)
}
