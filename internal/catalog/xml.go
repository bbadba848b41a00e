package catalog

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/vikin91/repotrace/internal/models"
)

// XMLParser decodes primary.xml catalogs. The document namespace varies
// between repositories (commonly http://linux.duke.edu/metadata/common) and
// may be absent entirely, so elements are matched by local name within the
// namespace detected from the root element.
type XMLParser struct{}

type xmlPackage struct {
	Type    string      `xml:"type,attr"`
	Name    *string     `xml:"name"`
	Arch    *string     `xml:"arch"`
	Version *xmlVersion `xml:"version"`
}

type xmlVersion struct {
	Epoch string `xml:"epoch,attr"`
	Ver   string `xml:"ver,attr"`
	Rel   string `xml:"rel,attr"`
}

// Parse extracts one record per well-formed <package type="rpm"> element.
// Package elements missing name, arch or version are skipped; repository
// metadata is treated as best-effort.
func (p *XMLParser) Parse(data []byte, repoID string) ([]Record, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		records   []Record
		namespace string
		sawRoot   bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &models.TraceError{
				Type: models.ErrParse,
				Repo: repoID,
				Err:  fmt.Errorf("parsing primary.xml: %w", err),
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			// The root element fixes the namespace for the whole document.
			namespace = start.Name.Space
			sawRoot = true
			continue
		}

		if start.Name.Local != "package" || start.Name.Space != namespace {
			continue
		}

		var pkg xmlPackage
		if err := decoder.DecodeElement(&pkg, &start); err != nil {
			return nil, &models.TraceError{
				Type: models.ErrParse,
				Repo: repoID,
				Err:  fmt.Errorf("decoding package element: %w", err),
			}
		}

		if pkg.Type != "rpm" {
			continue
		}
		if pkg.Name == nil || pkg.Arch == nil || pkg.Version == nil {
			continue
		}

		records = append(records, Record{
			Key: models.NevraKey{
				Name:    *pkg.Name,
				Epoch:   models.NormalizeEpoch(pkg.Version.Epoch),
				Version: pkg.Version.Ver,
				Release: pkg.Version.Rel,
				Arch:    *pkg.Arch,
			},
			RepoID: repoID,
		})
	}

	return dedupe(records), nil
}
