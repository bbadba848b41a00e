package index

// Merge folds the artifacts' package maps into one lookup table in load
// order. Later artifacts overwrite earlier ones on key collision: a NEVRA
// may legitimately appear in more than one enabled repository, and the last
// one loaded is treated as authoritative. No collision warning is emitted.
func Merge(indexes []*Index) map[string]string {
	merged := make(map[string]string)
	for _, idx := range indexes {
		for key, repoID := range idx.Packages {
			merged[key] = repoID
		}
	}
	return merged
}
