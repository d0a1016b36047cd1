package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIndex() ModIndex {
	return ModIndex{
		"jei": {
			Slug: "jei",
			Name: "Just Enough Items",
			ID:   238222,
			Loaders: map[string]VersionIndex{
				"forge":  {"1.18.2": 100, "1.19.2": 150},
				"fabric": {"1.18.1": 90},
			},
		},
	}
}

func TestIsCurrent(t *testing.T) {
	t.Parallel()

	idx := sampleIndex()

	tests := []struct {
		name    string
		slug    string
		loader  string
		version string
		fileID  int
		want    bool
	}{
		{name: "exact version and file", slug: "jei", loader: "forge", version: "1.18.2", fileID: 100, want: true},
		{name: "minor prefix matches patch version", slug: "jei", loader: "forge", version: "1.18", fileID: 100, want: true},
		{name: "other version under same loader", slug: "jei", loader: "forge", version: "1.19", fileID: 150, want: true},
		{name: "newer upstream file", slug: "jei", loader: "forge", version: "1.18", fileID: 101, want: false},
		{name: "file id recorded for a non-matching version", slug: "jei", loader: "forge", version: "1.18", fileID: 150, want: false},
		{name: "loader not indexed", slug: "jei", loader: "quilt", version: "1.18", fileID: 100, want: false},
		{name: "slug absent", slug: "rei", loader: "forge", version: "1.18", fileID: 100, want: false},
		{name: "prefix is literal", slug: "jei", loader: "fabric", version: "1.18.10", fileID: 90, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, idx.IsCurrent(tt.slug, tt.loader, tt.version, tt.fileID))
		})
	}
}

func TestIsCurrentOnEmptyAndNilIndex(t *testing.T) {
	t.Parallel()

	var nilIdx ModIndex
	assert.False(t, nilIdx.IsCurrent("jei", "forge", "1.18", 100))
	assert.False(t, ModIndex{}.IsCurrent("jei", "forge", "1.18", 100))
	assert.False(t, ModIndex{"jei": nil}.IsCurrent("jei", "forge", "1.18", 100))
	assert.False(t, ModIndex{"jei": {Slug: "jei"}}.IsCurrent("jei", "forge", "1.18", 100))
}

func TestMergeKeepsOtherLoaders(t *testing.T) {
	t.Parallel()

	idx := ModIndex{"a": NewModRecord("a", "A", 1, "forge", "1.18.2", 100)}
	incoming := ModIndex{"a": NewModRecord("a", "A", 1, "fabric", "1.18.2", 200)}

	require.True(t, idx.Merge(incoming))

	want := map[string]VersionIndex{
		"forge":  {"1.18.2": 100},
		"fabric": {"1.18.2": 200},
	}
	assert.Equal(t, want, idx["a"].Loaders)
}

func TestMergeReplacesDifferingFileAndKeepsOtherVersions(t *testing.T) {
	t.Parallel()

	idx := sampleIndex()
	incoming := ModIndex{"jei": NewModRecord("jei", "Just Enough Items", 238222, "forge", "1.18.2", 120)}

	require.True(t, idx.Merge(incoming))
	assert.Equal(t, VersionIndex{"1.18.2": 120, "1.19.2": 150}, idx["jei"].Loaders["forge"])
	assert.Equal(t, VersionIndex{"1.18.1": 90}, idx["jei"].Loaders["fabric"])
}

func TestMergeReportsNoChangeForKnownEntries(t *testing.T) {
	t.Parallel()

	idx := sampleIndex()
	incoming := ModIndex{"jei": NewModRecord("jei", "Just Enough Items", 238222, "forge", "1.19.2", 150)}

	assert.False(t, idx.Merge(incoming))
	assert.False(t, idx.Merge(nil))
}

func TestMergeAddsNewSlugAsCopy(t *testing.T) {
	t.Parallel()

	idx := make(ModIndex)
	rec := NewModRecord("rei", "Roughly Enough Items", 310111, "fabric", "1.18.2", 5)
	require.True(t, idx.Merge(ModIndex{"rei": rec}))

	rec.Loaders["fabric"]["1.18.2"] = 6
	assert.Equal(t, 5, idx["rei"].Loaders["fabric"]["1.18.2"], "merged record must not alias the incoming one")
}

func TestProjectIDs(t *testing.T) {
	t.Parallel()

	idx := ModIndex{
		"b":   {ID: 20},
		"a":   {ID: 10},
		"dup": {ID: 10},
		"x":   {ID: 0},
		"nil": nil,
	}
	assert.Equal(t, []int{10, 20}, idx.ProjectIDs())
}

func TestNoLangSet(t *testing.T) {
	t.Parallel()

	set := make(NoLangSet)
	assert.True(t, set.Add("b"))
	assert.True(t, set.Add("a"))
	assert.False(t, set.Add("a"))
	assert.Equal(t, []string{"a", "b"}, set.Slugs())
	assert.True(t, set.Remove("a"))
	assert.False(t, set.Remove("a"))

	var nilSet NoLangSet
	assert.False(t, nilSet.Has("a"))
}
