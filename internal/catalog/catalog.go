package catalog

import (
	"github.com/vikin91/repotrace/internal/models"
	"github.com/vikin91/repotrace/internal/repomd"
)

// Record is one package entry decoded from a repository catalog.
type Record struct {
	Key    models.NevraKey
	RepoID string
}

// Parser extracts NEVRA records from canonical catalog bytes. One
// implementation exists per catalog encoding; adding an encoding means
// adding an implementation, not touching call sites.
type Parser interface {
	// Parse decodes catalog content into records owned by repoID.
	Parse(data []byte, repoID string) ([]Record, error)
}

// ForEncoding returns the parser for a catalog encoding.
func ForEncoding(enc repomd.Encoding) Parser {
	switch enc {
	case repomd.EncodingSQLite:
		return &SQLiteParser{}
	default:
		return &XMLParser{}
	}
}

// dedupe collapses duplicate NEVRA keys within one catalog: map semantics,
// last write wins.
func dedupe(records []Record) []Record {
	seen := make(map[string]int, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if i, ok := seen[r.Key.Key()]; ok {
			out[i] = r
			continue
		}
		seen[r.Key.Key()] = len(out)
		out = append(out, r)
	}
	return out
}
