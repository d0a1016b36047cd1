package cmd

import (
	"github.com/langpack/mod-lang-updater/internal/updater"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the stored mod index",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		updater.Status(openStore(cfg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
