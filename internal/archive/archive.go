// Package archive pulls language resources and modpack manifests out of mod
// archives held in memory.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/langpack/mod-lang-updater/internal/curseforge"
	"github.com/langpack/mod-lang-updater/internal/logging"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
)

const (
	DefaultSourceLocale = "en_us"
	// The vanilla namespace ships in many jars as overrides and is never the mod's own.
	reservedNamespace = "minecraft"
	manifestEntry     = "manifest.json"
)

// ErrNoLanguageFile means the archive holds no language resource for a mod namespace.
var ErrNoLanguageFile = errors.New("no language file in archive")

var langDirPattern = regexp.MustCompile(`^assets/([^/]+)/lang/`)

// Extractor writes language files from mod archives into Fs.
type Extractor struct {
	Fs afero.Fs
	// SourceLocale is the file copied from every mod, "en_us" when empty.
	SourceLocale string
	// SeedLocale, when set, is copied next to the source file the first time a
	// namespace is extracted, or created as an empty JSON object.
	SeedLocale string
}

func (e *Extractor) sourceLocale() string {
	if e.SourceLocale == "" {
		return DefaultSourceLocale
	}
	return strings.ToLower(e.SourceLocale)
}

// LangNamespace returns the first namespace with a lang directory holding
// the given locale, skipping the vanilla namespace.
func LangNamespace(zr *zip.Reader, locale string) (string, bool) {
	f, ns := findLocaleFile(zr, locale, "")
	return ns, f != nil
}

// findLocaleFile looks for assets/<ns>/lang/<locale>.json (or legacy .lang),
// matching the file name case-insensitively. An empty ns searches every
// non-reserved namespace in archive order.
func findLocaleFile(zr *zip.Reader, locale, ns string) (*zip.File, string) {
	for _, f := range zr.File {
		m := langDirPattern.FindStringSubmatch(f.Name)
		if m == nil || m[1] == reservedNamespace {
			continue
		}
		if ns != "" && m[1] != ns {
			continue
		}
		name := strings.ToLower(path.Base(f.Name))
		if name == locale+".json" || name == locale+".lang" {
			return f, m[1]
		}
	}
	return nil, ""
}

// ExtractLang writes the source locale file of the archive's mod namespace to
// destDir/assets/<ns>/lang/ and returns the namespace. It returns
// ErrNoLanguageFile when no namespace carries the source locale.
func (e *Extractor) ExtractLang(data []byte, destDir string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}

	src, ns := findLocaleFile(zr, e.sourceLocale(), "")
	if src == nil {
		return "", ErrNoLanguageFile
	}

	if err := e.writeEntry(src, destDir); err != nil {
		return "", err
	}

	if e.SeedLocale != "" {
		if err := e.seed(zr, ns, path.Ext(src.Name), destDir); err != nil {
			return "", err
		}
	}

	logging.Debugf("Verbose: extracted %s\n", src.Name)
	return ns, nil
}

func (e *Extractor) seed(zr *zip.Reader, ns, ext, destDir string) error {
	seed := strings.ToLower(e.SeedLocale)
	target := filepath.Join(destDir, "assets", ns, "lang", seed+ext)
	exists, err := afero.Exists(e.Fs, target)
	if err != nil {
		return fmt.Errorf("checking %s: %w", target, err)
	}
	if exists {
		return nil
	}

	if f, _ := findLocaleFile(zr, seed, ns); f != nil {
		logging.Debugf("Verbose: %s ships %s, copying it\n", ns, seed)
		return e.writeEntryTo(f, target)
	}

	logging.Debugf("Verbose: creating empty %s for %s\n", seed, ns)
	return e.writeFile(target, []byte("{}\n"))
}

func (e *Extractor) writeEntry(f *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(f.Name))

	// Prevent path traversal out of destDir.
	cleanDest := filepath.Clean(destDir)
	cleanPath := filepath.Clean(target)
	if !strings.HasPrefix(cleanPath, cleanDest+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes destination", f.Name)
	}
	return e.writeEntryTo(f, target)
}

func (e *Extractor) writeEntryTo(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}

	if strings.EqualFold(path.Ext(f.Name), ".json") {
		data = normalizeJSON(f.Name, data)
	}
	return e.writeFile(target, data)
}

func (e *Extractor) writeFile(target string, data []byte) error {
	if err := e.Fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if err := afero.WriteFile(e.Fs, target, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// normalizeJSON strips comments and trailing commas, which some mods ship in
// their lang files, and re-indents the result. Unparsable input is kept as is.
func normalizeJSON(name string, data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	std, err := hujson.Standardize(data)
	if err != nil {
		logging.Warnf("%s is not valid JSON, copying unchanged: %v\n", name, err)
		return data
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, std, "", "  "); err != nil {
		logging.Warnf("%s could not be re-indented, copying unchanged: %v\n", name, err)
		return data
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// ManifestProjectIDs reads manifest.json from a modpack archive and returns
// the project ids it lists.
func ManifestProjectIDs(data []byte) ([]int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening modpack archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != manifestEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", manifestEntry, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", manifestEntry, err)
		}
		return curseforge.ParseManifest(raw)
	}
	return nil, fmt.Errorf("modpack archive has no %s", manifestEntry)
}
