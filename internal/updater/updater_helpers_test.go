package updater

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/langpack/mod-lang-updater/internal/archive"
	"github.com/langpack/mod-lang-updater/internal/curseforge"
	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/loader"
	"github.com/spf13/afero"
)

const testDir = "/pack"

type fakeMeta struct {
	mu        sync.Mutex
	files     map[int]*curseforge.ModFile
	fileErrs  map[int]error
	archives  map[string][]byte
	manifests map[string][]int
	modpacks  map[int]string
	downloads []string
	calls     int

	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{
		files:     make(map[int]*curseforge.ModFile),
		fileErrs:  make(map[int]error),
		archives:  make(map[string][]byte),
		manifests: make(map[string][]int),
		modpacks:  make(map[int]string),
	}
}

// addMod registers a project whose latest file downloads as the given archive
// payload. The extractor fakes decide what the payload means.
func (m *fakeMeta) addMod(projectID int, slug string, fileID int, payload string) {
	m.files[projectID] = &curseforge.ModFile{
		ProjectID:   projectID,
		Slug:        slug,
		Name:        slug + " mod",
		Loader:      loader.Fabric,
		GameVersion: "1.18.2",
		FileID:      fileID,
	}
	m.archives[downloadURL(projectID, fileID)] = []byte(payload)
}

func downloadURL(projectID, fileID int) string {
	return fmt.Sprintf("https://cdn.test/%d/%d.jar", projectID, fileID)
}

func (m *fakeMeta) track() func() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	n := m.inFlight.Add(1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return func() { m.inFlight.Add(-1) }
}

func (m *fakeMeta) ModFile(_ context.Context, _ loader.Loader, projectID int, _ string) (*curseforge.ModFile, error) {
	defer m.track()()
	if err := m.fileErrs[projectID]; err != nil {
		return nil, err
	}
	mf, ok := m.files[projectID]
	if !ok {
		return nil, curseforge.ErrNoMatchingFile
	}
	out := *mf
	return &out, nil
}

func (m *fakeMeta) DownloadURL(_ context.Context, projectID, fileID int) (string, error) {
	defer m.track()()
	return downloadURL(projectID, fileID), nil
}

func (m *fakeMeta) Download(_ context.Context, url string) ([]byte, error) {
	defer m.track()()
	m.mu.Lock()
	m.downloads = append(m.downloads, url)
	m.mu.Unlock()
	data, ok := m.archives[url]
	if !ok {
		return nil, &curseforge.HTTPError{URL: url, StatusCode: 404}
	}
	return data, nil
}

func (m *fakeMeta) FetchManifest(_ context.Context, url string) ([]int, error) {
	defer m.track()()
	ids, ok := m.manifests[url]
	if !ok {
		return nil, &curseforge.HTTPError{URL: url, StatusCode: 404}
	}
	return ids, nil
}

func (m *fakeMeta) ModpackDownloadURL(_ context.Context, projectID int) (string, bool, error) {
	defer m.track()()
	url, ok := m.modpacks[projectID]
	return url, ok, nil
}

func (m *fakeMeta) downloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.downloads)
}

func (m *fakeMeta) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeExtractor maps archive payloads to extraction results. Payload "nolang"
// has no language file, "panic" panics and anything else yields itself as the
// namespace.
type fakeExtractor struct {
	mu   sync.Mutex
	dirs []string
}

func (e *fakeExtractor) ExtractLang(data []byte, destDir string) (string, error) {
	e.mu.Lock()
	e.dirs = append(e.dirs, destDir)
	e.mu.Unlock()

	switch payload := string(data); payload {
	case "nolang":
		return "", archive.ErrNoLanguageFile
	case "corrupt":
		return "", fmt.Errorf("opening archive: zip: not a valid zip file")
	case "panic":
		panic("boom")
	default:
		return payload, nil
	}
}

func newTestUpdater(meta *fakeMeta) (*Updater, *index.Store, afero.Fs) {
	fsys := afero.NewMemMapFs()
	store := index.NewStore(fsys, testDir)
	return New(meta, &fakeExtractor{}, store, testDir), store, fsys
}

func fabricOpts(targets ...int) Options {
	return Options{Loader: loader.Fabric, Version: "1.18.2", Targets: targets}
}
