package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cccm/config"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolP("yes", "y", false, "Replace existing profiles without asking")
}

// importExtensions are the file types accepted by import
var importExtensions = []string{".cccm", ".json"}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all profiles with the contents of a .cccm file",
	Long: `Import a store previously written by 'cccm export'.

The import replaces every existing profile and the current marker. Only .cccm
and .json files are accepted; malformed files are rejected and leave the store
untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !hasImportExtension(path) {
			return config.Errorf(config.KindValidation, "import", path,
				fmt.Errorf("unsupported file type %q (want %s)", filepath.Ext(path), strings.Join(importExtensions, " or ")))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return config.Errorf(config.KindIO, "import", path, err)
		}

		imported, err := config.Import(data)
		if err != nil {
			return err
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		existing := m.Load()
		yes, _ := cmd.Flags().GetBool("yes")
		if len(existing.Profiles) > 0 && !yes {
			if !isTerminal() {
				return fmt.Errorf("import would replace %d existing profile(s); pass --yes", len(existing.Profiles))
			}
			confirmed, err := ui.PromptConfirmation(fmt.Sprintf("Replace %d existing profile(s)?", len(existing.Profiles)))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}

		if err := m.Save(imported); err != nil {
			return err
		}

		ui.Success(cmd.OutOrStdout(), "Imported %d profile(s) from %s", len(imported.Profiles), path)
		if name := imported.CurrentName(); name != "" {
			ui.Hint(cmd.OutOrStdout(), "Current profile is '%s'; run 'cccm switch %s' to apply it", name, name)
		}
		return nil
	},
}

func hasImportExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range importExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
