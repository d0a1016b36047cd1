package index

import "strings"

// IsCurrent reports whether the candidate file id is already recorded for the
// mod under loaderName at any stored game version starting with
// requestedVersion. A requested "1.18" therefore matches a stored "1.18.2".
func (m ModIndex) IsCurrent(slug, loaderName, requestedVersion string, candidateFileID int) bool {
	rec := m[slug]
	if rec == nil {
		return false
	}
	versions, ok := rec.Loaders[loaderName]
	if !ok {
		return false
	}
	for v, fileID := range versions {
		if strings.HasPrefix(v, requestedVersion) && fileID == candidateFileID {
			return true
		}
	}
	return false
}

// Merge folds incoming into m slug by slug, loader by loader and version by
// version. Entries m holds for other loaders or versions are left alone.
// It reports whether m changed. m must be non-nil.
func (m ModIndex) Merge(incoming ModIndex) bool {
	changed := false
	for slug, rec := range incoming {
		if rec == nil {
			continue
		}
		cur, ok := m[slug]
		if !ok || cur == nil {
			clone := rec.Clone()
			clone.Slug = slug
			m[slug] = clone
			changed = true
			continue
		}
		if rec.Name != "" && rec.Name != cur.Name {
			cur.Name = rec.Name
			changed = true
		}
		if rec.ID != 0 && rec.ID != cur.ID {
			cur.ID = rec.ID
			changed = true
		}
		for loaderName, versions := range rec.Loaders {
			if len(versions) == 0 {
				continue
			}
			if cur.Loaders == nil {
				cur.Loaders = make(map[string]VersionIndex)
			}
			dst := cur.Loaders[loaderName]
			if dst == nil {
				dst = make(VersionIndex, len(versions))
				cur.Loaders[loaderName] = dst
			}
			for v, fileID := range versions {
				if old, ok := dst[v]; !ok || old != fileID {
					dst[v] = fileID
					changed = true
				}
			}
		}
	}
	return changed
}
