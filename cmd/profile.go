package cmd

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/langpack/mod-lang-updater/internal/loader"
	"github.com/langpack/mod-lang-updater/internal/logging"
	"github.com/langpack/mod-lang-updater/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved option profiles",
}

// Flags for profile create
var (
	profLoader      *string
	profVersion     *string
	profOutputDir   *string
	profConcurrency *int
	profSeedLocale  *string
	profVerbose     *bool
)

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &profile.Profile{}

		if cmd.Flags().Changed("loader") {
			l, err := loader.Parse(*profLoader)
			if err != nil {
				return wrapUsageError(err)
			}
			s := l.String()
			p.Loader = &s
		}
		if cmd.Flags().Changed("version") {
			p.Version = profVersion
		}
		if cmd.Flags().Changed("output-dir") {
			p.OutputDir = profOutputDir
		}
		if cmd.Flags().Changed("concurrency") {
			p.Concurrency = profConcurrency
		}
		if cmd.Flags().Changed("seed-locale") {
			p.SeedLocale = profSeedLocale
		}
		if cmd.Flags().Changed("verbose") {
			p.Verbose = profVerbose
		}
		if cmd.Flags().Changed("log-file") {
			p.LogFile = &logFile
		}

		if err := profile.Save(args[0], p); err != nil {
			return err
		}
		logging.Infof("Profile %q saved to %s\n", args[0], profile.Dir())
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := profile.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			logging.Infoln("No profiles saved.")
			return nil
		}
		for _, n := range names {
			logging.Infoln(n)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's contents",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return err
		}
		logging.Infof("%s", buf.String())
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved profile",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profile.Delete(args[0]); err != nil {
			return err
		}
		logging.Infof("Profile %q deleted.\n", args[0])
		return nil
	},
}

func init() {
	// Local flags so they only apply to this subcommand and don't collide
	// with the root flags.
	profLoader = profileCreateCmd.Flags().String("loader", "", "Mod loader: fabric or forge")
	profVersion = profileCreateCmd.Flags().String("version", "", "Game version, e.g. 1.18.2")
	profOutputDir = profileCreateCmd.Flags().String("output-dir", "", "Resource pack directory")
	profConcurrency = profileCreateCmd.Flags().Int("concurrency", 0, "Maximum mods processed at once")
	profSeedLocale = profileCreateCmd.Flags().String("seed-locale", "", "Locale file to create for new mods")
	profVerbose = profileCreateCmd.Flags().Bool("verbose", false, "Enable verbose logging")

	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
