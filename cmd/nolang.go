package cmd

import (
	"fmt"

	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/logging"
	"github.com/spf13/cobra"
)

var nolangCmd = &cobra.Command{
	Use:   "nolang",
	Short: "Manage mods recorded as having no language file",
	Long: `Mods recorded without a language file are never downloaded again.
Remove them here to have the next run check them once more.`,
}

var nolangListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mods recorded without a language file",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := nolangStore()
		if err != nil {
			return err
		}
		set, _ := store.LoadNoLang()
		if len(set) == 0 {
			logging.Infoln("No mods recorded.")
			return nil
		}
		for _, slug := range set.Slugs() {
			logging.Infof("  - %s\n", slug)
		}
		return nil
	},
}

var nolangRemoveCmd = &cobra.Command{
	Use:   "remove [slugs...]",
	Short: "Re-check the given mods on the next run",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := nolangStore()
		if err != nil {
			return err
		}
		set, _ := store.LoadNoLang()

		removed := 0
		for _, slug := range args {
			if set.Remove(slug) {
				removed++
				logging.Infof("  %s removed\n", slug)
			} else {
				logging.Infof("  %s was not recorded\n", slug)
			}
		}
		if removed == 0 {
			return nil
		}

		if len(set) == 0 {
			return store.ResetNoLang()
		}
		if err := store.SaveNoLang(set); err != nil {
			return fmt.Errorf("saving %s: %w", index.NoLangTable, err)
		}
		return nil
	},
}

var nolangClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every mod recorded without a language file",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := nolangStore()
		if err != nil {
			return err
		}
		if err := store.ResetNoLang(); err != nil {
			return err
		}
		logging.Infof("Cleared %s\n", store.Path(index.NoLangTable))
		return nil
	},
}

func nolangStore() (*index.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStore(cfg), nil
}

func init() {
	nolangCmd.AddCommand(nolangListCmd, nolangRemoveCmd, nolangClearCmd)
	rootCmd.AddCommand(nolangCmd)
}
