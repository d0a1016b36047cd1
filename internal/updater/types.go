package updater

import (
	"context"
	"errors"

	"github.com/langpack/mod-lang-updater/internal/curseforge"
	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/loader"
)

// ErrInvalidArgument marks bad loader, version or target input. Nothing is
// fetched when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// Metadata is the mod API as used by the updater. *curseforge.Client
// implements it.
type Metadata interface {
	ModFile(ctx context.Context, l loader.Loader, projectID int, version string) (*curseforge.ModFile, error)
	DownloadURL(ctx context.Context, projectID, fileID int) (string, error)
	Download(ctx context.Context, url string) ([]byte, error)
	FetchManifest(ctx context.Context, url string) ([]int, error)
	ModpackDownloadURL(ctx context.Context, projectID int) (string, bool, error)
}

// Extractor writes a mod archive's language files under destDir and returns
// the namespace, or archive.ErrNoLanguageFile. *archive.Extractor implements it.
type Extractor interface {
	ExtractLang(data []byte, destDir string) (string, error)
}

type Options struct {
	Loader  loader.Loader
	Version string
	Targets []int
	// Concurrency caps in-flight projects; zero or less starts every project at once.
	Concurrency int
	OnProgress  func(Progress)
}

type Progress struct {
	Completed int64
	Total     int64
}

type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeIndexed
	OutcomeNoLanguageFile
	OutcomeFailed
)

type SkipReason int

const (
	SkipNotFound SkipReason = iota
	SkipNegativeCache
	SkipUpToDate
)

// Outcome is the result of processing one project. It is folded into the
// tables after every project has settled and is never persisted.
type Outcome struct {
	Kind      OutcomeKind
	ProjectID int
	Slug      string
	Reason    SkipReason
	Record    *index.ModRecord
	Err       error
}

type Result struct {
	Targets        int
	Indexed        int
	NoLanguage     int
	UpToDate       int
	NegativeCached int
	NotFound       int
	Failed         int
	FailedProjects []string
	ModIndexSaved  bool
	NoLangSaved    bool
}
