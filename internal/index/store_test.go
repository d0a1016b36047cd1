package index

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storeDir = "/pack"

func TestLoadAbsentTablesStartEmpty(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewMemMapFs(), storeDir)

	idx, ok := s.LoadModIndex()
	assert.False(t, ok)
	assert.NotNil(t, idx)
	assert.Empty(t, idx)

	set, ok := s.LoadNoLang()
	assert.False(t, ok)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestLoadUnparsableTableIsAbsent(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(storeDir, "ModIndex.json"), []byte("{not json"), 0o644))

	idx, ok := NewStore(fsys, storeDir).LoadModIndex()
	assert.False(t, ok)
	assert.Empty(t, idx)
}

func TestLoadReadsExistingDocumentShape(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	doc := `{
  "jei": {
    "name": "Just Enough Items",
    "id": 238222,
    "forge": {"1.18.2": 3847103},
    "fabric": {"1.18.2": 3847200}
  }
}`
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(storeDir, "ModIndex.json"), []byte(doc), 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(storeDir, "NoLangModIndex.json"), []byte(`["appleskin","ferritecore"]`), 0o644))

	s := NewStore(fsys, storeDir)
	idx, ok := s.LoadModIndex()
	require.True(t, ok)

	rec := idx["jei"]
	require.NotNil(t, rec)
	assert.Equal(t, "jei", rec.Slug)
	assert.Equal(t, "Just Enough Items", rec.Name)
	assert.Equal(t, 238222, rec.ID)
	assert.Equal(t, VersionIndex{"1.18.2": 3847103}, rec.Loaders["forge"])
	assert.Equal(t, VersionIndex{"1.18.2": 3847200}, rec.Loaders["fabric"])

	set, ok := s.LoadNoLang()
	require.True(t, ok)
	assert.Equal(t, []string{"appleskin", "ferritecore"}, set.Slugs())
}

func TestSaveWritesPrettyJSONAndOverwrites(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := NewStore(fsys, storeDir)

	require.NoError(t, s.SaveModIndex(ModIndex{"old": NewModRecord("old", "Old", 1, "forge", "1.16.5", 1)}))
	require.NoError(t, s.SaveModIndex(ModIndex{"jei": NewModRecord("jei", "JEI", 2, "forge", "1.18.2", 7)}))

	data, err := afero.ReadFile(fsys, s.Path(ModIndexTable))
	require.NoError(t, err)
	want := `{
  "jei": {
    "name": "JEI",
    "id": 2,
    "forge": {
      "1.18.2": 7
    }
  }
}
`
	assert.Equal(t, want, string(data))

	exists, err := afero.Exists(fsys, s.Path(ModIndexTable)+".tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temp file should be renamed away")
}

func TestSaveNoLangAndReset(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	s := NewStore(fsys, storeDir)

	require.NoError(t, s.SaveNoLang(NoLangSet{"b": {}, "a": {}}))
	data, err := afero.ReadFile(fsys, s.Path(NoLangTable))
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", string(data))

	require.NoError(t, s.ResetNoLang())
	require.NoError(t, s.ResetNoLang(), "resetting twice is not an error")
	set, ok := s.LoadNoLang()
	assert.False(t, ok)
	assert.Empty(t, set)
}

func TestSaveFailureIsReturned(t *testing.T) {
	t.Parallel()

	s := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), storeDir)
	assert.Error(t, s.SaveModIndex(ModIndex{"a": NewModRecord("a", "A", 1, "forge", "1.18", 1)}))
}
