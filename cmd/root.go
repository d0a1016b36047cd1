package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/langpack/mod-lang-updater/internal/config"
	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/logging"
	"github.com/langpack/mod-lang-updater/internal/profile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	outputDir   string
	profileName string
	verbose     bool
	logFile     string

	// Values a profile may supply in place of the loader and version arguments.
	profileLoader  string
	profileVersion string
)

var rootCmd = &cobra.Command{
	Use:   "mod-lang-updater <fabric|forge> <version> <projectId|manifestURL|all>",
	Short: "Incrementally collect language files from CurseForge mods",
	Long: `Fetch mods from the CurseForge API, extract their language files into a
resource pack layout and remember what was processed, so repeated runs only
download mods whose files changed.

The target is a project id (a modpack id expands to its mods), a URL to a
modpack manifest.json, or "all" to refresh every indexed mod.`,
	Example: `  mod-lang-updater fabric 1.18.2 394468
  mod-lang-updater forge 1.19 https://example.com/manifest.json
  mod-lang-updater --profile fabric-118 all`,
	Args:          usageArgs(cobra.RangeArgs(1, 3)),
	RunE:          runUpdate,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Apply profile defaults for flags not explicitly set by the user.
		if profileName != "" {
			p, err := profile.Load(profileName)
			if err != nil {
				return err
			}
			if p.OutputDir != nil && !cmd.Flags().Changed("output-dir") {
				outputDir = *p.OutputDir
			}
			if p.Concurrency != nil && !cmd.Flags().Changed("concurrency") {
				concurrency = *p.Concurrency
			}
			if p.SeedLocale != nil && !cmd.Flags().Changed("seed-locale") {
				seedLocale = *p.SeedLocale
			}
			if p.Verbose != nil && !cmd.Flags().Changed("verbose") {
				verbose = *p.Verbose
			}
			if p.LogFile != nil && !cmd.Flags().Changed("log-file") {
				logFile = *p.LogFile
			}
			if p.Loader != nil {
				profileLoader = *p.Loader
			}
			if p.Version != nil {
				profileVersion = *p.Version
			}
		}

		logging.SetVerbose(verbose)
		if err := logging.SetOutputFile(logFile); err != nil {
			return fmt.Errorf("opening log file %q: %w", logFile, err)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeErr := logging.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", closeErr)
		if err == nil {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			if cmd, _, findErr := rootCmd.Find(os.Args[1:]); findErr == nil && cmd != nil {
				_ = cmd.Usage()
			} else {
				_ = rootCmd.Usage()
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapUsageError(err)
	})

	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Resource pack directory holding the indexes and extracted files (also reads "+config.EnvOutputDir+" env)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Load a saved option profile by name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write command output to a log file")
}

// loadConfig reads the environment and applies the --output-dir override.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(outputDir) != "" {
		cfg.OutputDir = outputDir
	}
	return cfg, nil
}

func openStore(cfg config.Config) *index.Store {
	return index.NewStore(afero.NewOsFs(), cfg.OutputDir)
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func wrapUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if validate == nil {
			return nil
		}
		if err := validate(cmd, args); err != nil {
			return wrapUsageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}

	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command ")
}
