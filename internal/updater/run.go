package updater

import (
	"context"
	"sync/atomic"

	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Updater runs the incremental fetch-extract-record pipeline.
type Updater struct {
	meta      Metadata
	extractor Extractor
	store     *index.Store
	outputDir string
}

// New wires the collaborators. Extracted files go below outputDir.
func New(meta Metadata, extractor Extractor, store *index.Store, outputDir string) *Updater {
	return &Updater{meta: meta, extractor: extractor, store: store, outputDir: outputDir}
}

// Run processes every target concurrently against a snapshot of the stored
// tables, then folds the outcomes and persists whichever table changed.
// Per-project failures are logged and counted, never returned.
func (u *Updater) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	logRunStart(opts)

	modIndex, noLang := u.loadTables()

	logging.Infof("Extracting language files from %d mod(s)...\n", len(opts.Targets))
	outcomes := u.processAll(ctx, opts, modIndex, noLang)

	result := &Result{Targets: len(opts.Targets)}
	indexChanged, noLangChanged := foldOutcomes(outcomes, modIndex, noLang, result)
	u.persist(modIndex, noLang, indexChanged, noLangChanged, result)

	return result, nil
}

// processAll starts one task per target. Each task writes only its own slot
// of the outcome slice, and the tables are only read until Wait returns.
func (u *Updater) processAll(ctx context.Context, opts Options, modIndex index.ModIndex, noLang index.NoLangSet) []Outcome {
	outcomes := make([]Outcome, len(opts.Targets))
	total := int64(len(opts.Targets))
	var completed atomic.Int64

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, projectID := range opts.Targets {
		g.Go(func() error {
			outcomes[i] = u.processProject(ctx, opts, projectID, modIndex, noLang)
			n := completed.Add(1)
			if opts.OnProgress != nil {
				opts.OnProgress(Progress{Completed: n, Total: total})
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
