package updater

import (
	"maps"
	"slices"

	"github.com/langpack/mod-lang-updater/internal/gameversion"
	"github.com/langpack/mod-lang-updater/internal/index"
	"github.com/langpack/mod-lang-updater/internal/logging"
)

// Summary counts indexed mods per loader and game version.
type Summary struct {
	Mods     int
	NoLang   int
	Versions map[string]map[string]int
}

// Summarize builds a Summary from in-memory tables.
func Summarize(modIndex index.ModIndex, noLang index.NoLangSet) Summary {
	s := Summary{
		Mods:     len(modIndex),
		NoLang:   len(noLang),
		Versions: make(map[string]map[string]int),
	}
	for _, rec := range modIndex {
		if rec == nil {
			continue
		}
		for loaderName, versions := range rec.Loaders {
			counts := s.Versions[loaderName]
			if counts == nil {
				counts = make(map[string]int)
				s.Versions[loaderName] = counts
			}
			for v := range versions {
				counts[v]++
			}
		}
	}
	return s
}

// Status prints what the stored tables currently hold.
func Status(store *index.Store) {
	modIndex, okIndex := store.LoadModIndex()
	noLang, okNoLang := store.LoadNoLang()
	if !okIndex && !okNoLang {
		logging.Infof("No index found in %s.\n", store.Dir())
		return
	}

	s := Summarize(modIndex, noLang)
	logging.Infof("Index:        %s\n", store.Dir())
	logging.Infof("Mods:         %d\n", s.Mods)
	logging.Infof("No language:  %d\n", s.NoLang)

	for _, loaderName := range slices.Sorted(maps.Keys(s.Versions)) {
		counts := s.Versions[loaderName]
		logging.Infof("\n%s:\n", loaderName)
		for _, v := range gameversion.Sorted(slices.Collect(maps.Keys(counts))) {
			logging.Infof("  %-10s %d mod(s)\n", v, counts[v])
		}
	}
}
