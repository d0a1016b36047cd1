package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/langpack/mod-lang-updater/internal/logging"
	"github.com/spf13/afero"
)

const (
	ModIndexTable = "ModIndex"
	NoLangTable   = "NoLangModIndex"
)

// Store persists the two tables as pretty-printed JSON files under dir.
type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Dir returns the directory holding the table files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing the named table.
func (s *Store) Path(table string) string {
	return filepath.Join(s.dir, table+".json")
}

// LoadModIndex returns the stored index, or an empty index and false when the
// file is missing or unreadable.
func (s *Store) LoadModIndex() (ModIndex, bool) {
	var idx ModIndex
	if !s.load(ModIndexTable, &idx) || idx == nil {
		return make(ModIndex), false
	}
	return idx, true
}

// LoadNoLang returns the stored negative cache, or an empty set and false when
// the file is missing or unreadable.
func (s *Store) LoadNoLang() (NoLangSet, bool) {
	var set NoLangSet
	if !s.load(NoLangTable, &set) || set == nil {
		return make(NoLangSet), false
	}
	return set, true
}

func (s *Store) load(table string, v any) bool {
	path := s.Path(table)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debugf("Verbose: %s not found at %s, starting empty\n", table, path)
		} else {
			logging.Warnf("could not read %s: %v (starting empty)\n", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logging.Warnf("could not parse %s: %v (starting empty)\n", path, err)
		return false
	}
	return true
}

// SaveModIndex overwrites the ModIndex file with idx.
func (s *Store) SaveModIndex(idx ModIndex) error {
	return s.save(ModIndexTable, idx)
}

// SaveNoLang overwrites the NoLangModIndex file with set.
func (s *Store) SaveNoLang(set NoLangSet) error {
	return s.save(NoLangTable, set)
}

// ResetNoLang deletes the NoLangModIndex file so every slug is re-checked on
// the next run.
func (s *Store) ResetNoLang() error {
	if err := s.fs.Remove(s.Path(NoLangTable)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", NoLangTable, err)
	}
	return nil
}

// save writes to a temp file and renames it over the table so a failed write
// never leaves a truncated table behind.
func (s *Store) save(table string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", table, err)
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}

	path := s.Path(table)
	tmpPath := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", table, err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("finalizing %s: %w", table, err)
	}
	logging.Debugf("Verbose: saved %s to %s\n", table, path)
	return nil
}
