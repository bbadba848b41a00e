package catalog

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/vikin91/repotrace/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteParser decodes primary.sqlite catalogs. The database engine needs a
// real file, so the decoded bytes are written to a scratch location that is
// removed on every exit path.
type SQLiteParser struct{}

const selectPackages = `SELECT name, epoch, version, release, arch FROM packages`

// Parse loads the bytes as a SQLite database and reads the packages table.
func (p *SQLiteParser) Parse(data []byte, repoID string) ([]Record, error) {
	tmp, err := os.CreateTemp("", "repotrace-primary-*.sqlite")
	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrParse,
			Repo: repoID,
			Err:  fmt.Errorf("creating scratch database: %w", err),
		}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, &models.TraceError{
			Type: models.ErrParse,
			Repo: repoID,
			Err:  fmt.Errorf("writing scratch database: %w", err),
		}
	}
	if err := tmp.Close(); err != nil {
		return nil, &models.TraceError{Type: models.ErrParse, Repo: repoID, Err: err}
	}

	records, err := p.query(tmpPath, repoID)
	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrParse,
			Repo: repoID,
			Err:  err,
		}
	}
	return dedupe(records), nil
}

func (p *SQLiteParser) query(dbPath, repoID string) ([]Record, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(selectPackages)
	if err != nil {
		return nil, fmt.Errorf("querying packages table: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			name, version, release, arch string
			epoch                        sql.NullString
		)
		if err := rows.Scan(&name, &epoch, &version, &release, &arch); err != nil {
			return nil, fmt.Errorf("scanning package row: %w", err)
		}

		records = append(records, Record{
			Key: models.NevraKey{
				Name:    name,
				Epoch:   models.NormalizeEpoch(epoch.String),
				Version: version,
				Release: release,
				Arch:    arch,
			},
			RepoID: repoID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating package rows: %w", err)
	}

	return records, nil
}
