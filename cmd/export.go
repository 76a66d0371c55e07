package cmd

import (
	"os"
	"time"

	"cccm/config"
	"cccm/config/storage"
	"cccm/internal/ui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all profiles to a .cccm file",
	Long: `Export the whole store (profiles and current marker) as JSON.

The default file name is claude-configs-YYYY-MM-DD.cccm in the working
directory. Use - to write to stdout. The export contains API keys in clear text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		data, err := config.Export(m.Load())
		if err != nil {
			return err
		}

		path := config.ExportFileName(time.Now())
		if len(args) == 1 {
			path = args[0]
		}

		if path == "-" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && storage.FileExists(path) {
			return config.Errorf(config.KindIO, "export", path, os.ErrExist)
		}
		if err := storage.AtomicWriteFile(path, data, 0600); err != nil {
			return config.Errorf(config.KindIO, "export", path, err)
		}

		ui.Success(cmd.OutOrStdout(), "Exported profiles to %s", path)
		return nil
	},
}
