package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/langpack/mod-lang-updater/internal/archive"
	"github.com/langpack/mod-lang-updater/internal/curseforge"
	"github.com/langpack/mod-lang-updater/internal/loader"
	"github.com/langpack/mod-lang-updater/internal/logging"
	"github.com/langpack/mod-lang-updater/internal/updater"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	concurrency int
	seedLocale  string
	noProgress  bool
)

func init() {
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum mods processed at once (0 = no limit)")
	rootCmd.Flags().StringVar(&seedLocale, "seed-locale", "", "Also create this locale file (e.g. zh_cn) for newly extracted mods")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
}

// positional splits the arguments into loader, version and target. With a
// single argument the loader and version come from the active profile.
func positional(args []string) (loader.Loader, string, string, error) {
	var rawLoader, version, target string
	switch len(args) {
	case 3:
		rawLoader, version, target = args[0], args[1], args[2]
	case 1:
		if profileLoader == "" || profileVersion == "" {
			return "", "", "", wrapUsageError(errors.New("loader and version are required unless the profile sets both"))
		}
		rawLoader, version, target = profileLoader, profileVersion, args[0]
	default:
		return "", "", "", wrapUsageError(fmt.Errorf("expected <loader> <version> <target>, got %d argument(s)", len(args)))
	}

	l, err := loader.Parse(rawLoader)
	if err != nil {
		return "", "", "", wrapUsageError(err)
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return "", "", "", wrapUsageError(errors.New("game version must not be empty"))
	}
	return l, version, target, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	l, version, target, err := positional(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	extractor := &archive.Extractor{Fs: afero.NewOsFs(), SeedLocale: seedLocale}
	u := updater.New(curseforge.New(cfg), extractor, openStore(cfg), cfg.OutputDir)

	targets, err := u.ResolveTargets(ctx, target)
	if err != nil {
		if errors.Is(err, updater.ErrInvalidArgument) {
			return wrapUsageError(err)
		}
		return err
	}

	opts := updater.Options{
		Loader:      l,
		Version:     version,
		Targets:     targets,
		Concurrency: concurrency,
	}
	bar := newProgressBar(len(targets))
	if bar != nil {
		opts.OnProgress = func(p updater.Progress) {
			_ = bar.Set64(p.Completed)
		}
	}

	result, err := u.Run(ctx, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		if errors.Is(err, updater.ErrInvalidArgument) {
			return wrapUsageError(err)
		}
		return err
	}

	printResult(result)
	return nil
}

// newProgressBar returns nil when output is not an interactive terminal or
// the bar is disabled.
func newProgressBar(total int) *progressbar.ProgressBar {
	if noProgress || logFile != "" || total == 0 {
		return nil
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions64(
		int64(total),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("mods"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func printResult(r *updater.Result) {
	logging.Infof("\nDone: %d mod(s) checked\n", r.Targets)
	logging.Infof("  %d extracted, %d up to date, %d without language file, %d previously without language file\n",
		r.Indexed, r.UpToDate, r.NoLanguage, r.NegativeCached)
	if r.NotFound > 0 {
		logging.Infof("  %d had no file for this loader and version\n", r.NotFound)
	}
	if r.Failed > 0 {
		logging.Warnf("%d failed: %s\n", r.Failed, strings.Join(r.FailedProjects, ", "))
	}
}
