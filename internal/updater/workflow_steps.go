package updater

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/langpack/mod-lang-updater/internal/archive"
	"github.com/langpack/mod-lang-updater/internal/curseforge"
	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/logging"
)

func validateOptions(opts Options) error {
	if opts.Loader.TypeID() == 0 {
		return fmt.Errorf("%w: unknown mod loader %q", ErrInvalidArgument, opts.Loader)
	}
	if strings.TrimSpace(opts.Version) == "" {
		return fmt.Errorf("%w: empty game version", ErrInvalidArgument)
	}
	return nil
}

func logRunStart(opts Options) {
	logging.Debugf(
		"Verbose: run start loader=%s version=%s targets=%d concurrency=%d\n",
		opts.Loader,
		opts.Version,
		len(opts.Targets),
		opts.Concurrency,
	)
}

func (u *Updater) loadTables() (index.ModIndex, index.NoLangSet) {
	modIndex, _ := u.store.LoadModIndex()
	noLang, _ := u.store.LoadNoLang()
	logging.Debugf("Verbose: loaded tables mods=%d no-lang=%d dir=%s\n", len(modIndex), len(noLang), u.store.Dir())
	return modIndex, noLang
}

func (u *Updater) langDir(opts Options) string {
	return filepath.Join(u.outputDir, fmt.Sprintf("%s-%s", opts.Loader, opts.Version))
}

func highlightSlug(slug string) string {
	return logging.Highlight(slug, 0xFF, 0x00, 0x75)
}

func highlightNoLang(slug string) string {
	return logging.Highlight(slug, 0xFF, 0xEF, 0x82)
}

func highlightNamespace(ns string) string {
	return logging.Highlight(ns, 0xFF, 0xA5, 0x00)
}

// processProject decides whether a project needs fetching and, if so,
// downloads and extracts it. Errors and panics stay inside the returned Outcome.
func (u *Updater) processProject(ctx context.Context, opts Options, projectID int, modIndex index.ModIndex, noLang index.NoLangSet) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failed(projectID, "", fmt.Errorf("panic: %v", r))
		}
	}()

	mf, err := u.meta.ModFile(ctx, opts.Loader, projectID, opts.Version)
	if errors.Is(err, curseforge.ErrNoMatchingFile) {
		logging.Debugf("Verbose: project %d has no %s %s file\n", projectID, opts.Loader, opts.Version)
		return Outcome{Kind: OutcomeSkipped, ProjectID: projectID, Reason: SkipNotFound}
	}
	if err != nil {
		return failed(projectID, "", err)
	}
	slug := mf.Slug

	if noLang.Has(slug) {
		logging.Infof("  %s has no language file, skipping\n", highlightNoLang(slug))
		return Outcome{Kind: OutcomeSkipped, ProjectID: projectID, Slug: slug, Reason: SkipNegativeCache}
	}

	if len(modIndex) > 0 && modIndex.IsCurrent(slug, opts.Loader.String(), opts.Version, mf.FileID) {
		logging.Infof("  %s language file is up to date\n", highlightSlug(slug))
		return Outcome{Kind: OutcomeSkipped, ProjectID: projectID, Slug: slug, Reason: SkipUpToDate}
	}

	url, err := u.meta.DownloadURL(ctx, projectID, mf.FileID)
	if err != nil {
		return failed(projectID, slug, err)
	}
	data, err := u.meta.Download(ctx, url)
	if err != nil {
		return failed(projectID, slug, err)
	}
	logging.Debugf("Verbose: downloaded %s file=%d bytes=%d\n", slug, mf.FileID, len(data))

	ns, err := u.extractor.ExtractLang(data, u.langDir(opts))
	if errors.Is(err, archive.ErrNoLanguageFile) {
		logging.Infof("  %s has no language file\n", highlightNoLang(slug))
		return Outcome{Kind: OutcomeNoLanguageFile, ProjectID: projectID, Slug: slug}
	}
	if err != nil {
		return failed(projectID, slug, fmt.Errorf("extracting: %w", err))
	}
	logging.Infof("  %s extracted (%s)\n", highlightNamespace(ns), slug)

	return Outcome{
		Kind:      OutcomeIndexed,
		ProjectID: projectID,
		Slug:      slug,
		Record:    index.NewModRecord(slug, mf.Name, mf.ProjectID, opts.Loader.String(), mf.GameVersion, mf.FileID),
	}
}

func failed(projectID int, slug string, err error) Outcome {
	name := slug
	if name == "" {
		name = fmt.Sprintf("project %d", projectID)
	}
	logging.Errorf("%s: %v\n", name, err)
	return Outcome{Kind: OutcomeFailed, ProjectID: projectID, Slug: slug, Err: err}
}

// foldOutcomes applies every outcome to the tables in target order. It runs
// after all tasks have settled and is the only place the tables are mutated.
func foldOutcomes(outcomes []Outcome, modIndex index.ModIndex, noLang index.NoLangSet, result *Result) (indexChanged, noLangChanged bool) {
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeIndexed:
			result.Indexed++
			if modIndex.Merge(index.ModIndex{o.Slug: o.Record}) {
				indexChanged = true
			}
		case OutcomeNoLanguageFile:
			result.NoLanguage++
			if noLang.Add(o.Slug) {
				noLangChanged = true
			}
		case OutcomeFailed:
			result.Failed++
			name := o.Slug
			if name == "" {
				name = fmt.Sprint(o.ProjectID)
			}
			result.FailedProjects = append(result.FailedProjects, name)
		case OutcomeSkipped:
			switch o.Reason {
			case SkipUpToDate:
				result.UpToDate++
			case SkipNegativeCache:
				result.NegativeCached++
			default:
				result.NotFound++
			}
		}
	}
	logging.Debugf("Verbose: fold index-changed=%t no-lang-changed=%t\n", indexChanged, noLangChanged)
	return indexChanged, noLangChanged
}

// persist writes each changed, non-empty table. Write failures are logged and
// reported through result; they never fail the run.
func (u *Updater) persist(modIndex index.ModIndex, noLang index.NoLangSet, indexChanged, noLangChanged bool, result *Result) {
	if noLangChanged && len(noLang) > 0 {
		logging.Infof("Updating %s index\n", index.NoLangTable)
		if err := u.store.SaveNoLang(noLang); err != nil {
			logging.Errorf("saving %s: %v\n", index.NoLangTable, err)
		} else {
			result.NoLangSaved = true
		}
	}

	if indexChanged && len(modIndex) > 0 {
		logging.Infof("Updating %s index\n", index.ModIndexTable)
		if err := u.store.SaveModIndex(modIndex); err != nil {
			logging.Errorf("saving %s: %v\n", index.ModIndexTable, err)
		} else {
			result.ModIndexSaved = true
		}
	}
}
