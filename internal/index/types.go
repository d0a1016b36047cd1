// Package index holds the processed-mod index and the no-language-file set
// that make repeated runs incremental, and persists both as JSON documents.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// VersionIndex maps a game version ("1.18.2") to the last processed file id.
type VersionIndex map[string]int

// ModRecord is everything known about one mod, keyed by loader name.
type ModRecord struct {
	Slug    string
	Name    string
	ID      int
	Loaders map[string]VersionIndex
}

// NewModRecord builds a record holding a single (loader, version, file) entry.
func NewModRecord(slug, name string, id int, loaderName, gameVersion string, fileID int) *ModRecord {
	return &ModRecord{
		Slug: slug,
		Name: name,
		ID:   id,
		Loaders: map[string]VersionIndex{
			loaderName: {gameVersion: fileID},
		},
	}
}

// Clone returns a deep copy.
func (r *ModRecord) Clone() *ModRecord {
	if r == nil {
		return nil
	}
	out := &ModRecord{Slug: r.Slug, Name: r.Name, ID: r.ID, Loaders: make(map[string]VersionIndex, len(r.Loaders))}
	for l, vi := range r.Loaders {
		out.Loaders[l] = maps.Clone(vi)
	}
	return out
}

// MarshalJSON writes {"name":..,"id":..,"<loader>":{"<version>":fileId}}.
// The slug is the key of the enclosing ModIndex object.
func (r ModRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	name, err := json.Marshal(r.Name)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `"name":%s,"id":%d`, name, r.ID)

	for _, l := range slices.Sorted(maps.Keys(r.Loaders)) {
		if l == "name" || l == "id" {
			return nil, fmt.Errorf("mod %q: loader name %q collides with a record field", r.Slug, l)
		}
		key, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		versions, err := json.Marshal(r.Loaders[l])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(versions)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the shape written by MarshalJSON. Keys other than name
// and id whose values are not version objects are ignored.
func (r *ModRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rec := ModRecord{Slug: r.Slug, Loaders: make(map[string]VersionIndex)}
	for key, val := range raw {
		switch key {
		case "name":
			if err := json.Unmarshal(val, &rec.Name); err != nil {
				return fmt.Errorf("name: %w", err)
			}
		case "id":
			if err := json.Unmarshal(val, &rec.ID); err != nil {
				return fmt.Errorf("id: %w", err)
			}
		default:
			var vi VersionIndex
			if err := json.Unmarshal(val, &vi); err != nil || vi == nil {
				continue
			}
			rec.Loaders[key] = vi
		}
	}

	*r = rec
	return nil
}

// ModIndex is the durable processed-state table, keyed by slug.
type ModIndex map[string]*ModRecord

// UnmarshalJSON fills in each record's slug from its key and drops null records.
func (m *ModIndex) UnmarshalJSON(data []byte) error {
	var raw map[string]*ModRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ModIndex, len(raw))
	for slug, rec := range raw {
		if rec == nil {
			continue
		}
		rec.Slug = slug
		out[slug] = rec
	}
	*m = out
	return nil
}

// ProjectIDs returns the sorted, de-duplicated project ids of all records.
func (m ModIndex) ProjectIDs() []int {
	var ids []int
	for _, rec := range m {
		if rec != nil && rec.ID > 0 {
			ids = append(ids, rec.ID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// NoLangSet is the negative cache of slugs whose archives had no language files.
type NoLangSet map[string]struct{}

// Has reports membership. Safe on a nil set.
func (s NoLangSet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// Add inserts slug and reports whether it was new.
func (s NoLangSet) Add(slug string) bool {
	if s.Has(slug) {
		return false
	}
	s[slug] = struct{}{}
	return true
}

// Remove deletes slug and reports whether it was present.
func (s NoLangSet) Remove(slug string) bool {
	if !s.Has(slug) {
		return false
	}
	delete(s, slug)
	return true
}

// Slugs returns the members in sorted order.
func (s NoLangSet) Slugs() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s NoLangSet) MarshalJSON() ([]byte, error) {
	slugs := s.Slugs()
	if slugs == nil {
		slugs = []string{}
	}
	return json.Marshal(slugs)
}

func (s *NoLangSet) UnmarshalJSON(data []byte) error {
	var slugs []string
	if err := json.Unmarshal(data, &slugs); err != nil {
		return err
	}
	out := make(NoLangSet, len(slugs))
	for _, slug := range slugs {
		out[slug] = struct{}{}
	}
	*s = out
	return nil
}
