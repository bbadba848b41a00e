package match

import (
	"sort"

	"github.com/vikin91/repotrace/internal/models"
)

// Result records the discovered origin of one installed package. RepoID is
// empty when the package was not matched.
type Result struct {
	Key     models.NevraKey
	RepoID  string
	Matched bool
}

// Summary aggregates match counts for one discovery run.
type Summary struct {
	Matched   int
	Unmatched int
}

// Match cross-references installed packages against a merged index with one
// exact-key lookup per package. No fuzzy, partial or version-aware matching
// is attempted. Results are sorted by package name for deterministic output.
func Match(installed []models.NevraKey, merged map[string]string) ([]Result, Summary) {
	results := make([]Result, 0, len(installed))
	var summary Summary

	for _, key := range installed {
		repoID, ok := merged[key.Key()]
		if ok {
			summary.Matched++
		} else {
			summary.Unmatched++
		}
		results = append(results, Result{Key: key, RepoID: repoID, Matched: ok})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Key.Name < results[j].Key.Name
	})

	return results, summary
}
