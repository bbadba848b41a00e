package repomd

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/vikin91/repotrace/internal/fetch"
	"github.com/vikin91/repotrace/internal/models"
)

// Encoding identifies the catalog encoding a primary metadata file uses.
type Encoding int

const (
	EncodingXML Encoding = iota
	EncodingSQLite
)

// String returns the string representation of Encoding
func (e Encoding) String() string {
	switch e {
	case EncodingXML:
		return "xml"
	case EncodingSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// XML structures for repomd.xml (namespace http://linux.duke.edu/metadata/repo)

type repomd struct {
	XMLName xml.Name     `xml:"repomd"`
	Data    []repomdData `xml:"data"`
}

type repomdData struct {
	Type     string         `xml:"type,attr"`
	Location repomdLocation `xml:"location"`
}

type repomdLocation struct {
	Href string `xml:"href,attr"`
}

// Verifier checks a detached signature over metadata bytes. A nil Verifier
// disables the check.
type Verifier interface {
	VerifyDetached(data, signature []byte) error
}

// ResolvePrimary fetches <baseURL>/repodata/repomd.xml and returns the
// root-relative location of the primary package catalog. When a Verifier
// is supplied, the companion repomd.xml.asc signature is fetched and
// checked before the document is trusted.
func ResolvePrimary(ctx context.Context, client *fetch.Client, baseURL string, v Verifier) (string, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	repomdURL := baseURL + "/repodata/repomd.xml"

	data, err := client.Get(ctx, repomdURL)
	if err != nil {
		return "", err
	}

	if v != nil {
		sig, err := client.Get(ctx, repomdURL+".asc")
		if err != nil {
			return "", err
		}
		if err := v.VerifyDetached(data, sig); err != nil {
			return "", &models.TraceError{Type: models.ErrFetch, Err: err}
		}
	}

	href, err := parseRepomd(data)
	if err != nil {
		return "", err
	}
	return href, nil
}

// parseRepomd extracts the primary catalog href from repomd.xml contents.
func parseRepomd(data []byte) (string, error) {
	var md repomd
	if err := xml.Unmarshal(data, &md); err != nil {
		return "", &models.TraceError{
			Type: models.ErrParse,
			Err:  fmt.Errorf("parsing repomd.xml: %w", err),
		}
	}

	for _, d := range md.Data {
		if d.Type == "primary" && d.Location.Href != "" {
			return d.Location.Href, nil
		}
	}

	return "", &models.TraceError{
		Type: models.ErrParse,
		Err:  fmt.Errorf("no primary metadata entry in repomd.xml"),
	}
}
