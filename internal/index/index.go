package index

import (
	"time"

	"github.com/vikin91/repotrace/internal/catalog"
)

// Metadata records the provenance of an index artifact.
type Metadata struct {
	RepoID       string `json:"repo_id"`
	Source       string `json:"source"`
	Generated    string `json:"generated"`
	PackageCount int    `json:"package_count"`
}

// Index is a persistable NEVRA→repository mapping built from one
// repository's catalog. It is immutable once built.
type Index struct {
	Metadata Metadata          `json:"metadata"`
	Packages map[string]string `json:"packages"`
}

// Build wraps a catalog record set into an Index with provenance metadata.
// PackageCount always equals the number of entries in Packages.
func Build(repoID, source string, records []catalog.Record) *Index {
	packages := make(map[string]string, len(records))
	for _, r := range records {
		packages[r.Key.Key()] = r.RepoID
	}

	return &Index{
		Metadata: Metadata{
			RepoID:       repoID,
			Source:       source,
			Generated:    time.Now().UTC().Format(time.RFC3339),
			PackageCount: len(packages),
		},
		Packages: packages,
	}
}
