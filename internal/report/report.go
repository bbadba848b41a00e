package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vikin91/repotrace/internal/match"
)

// Format selects the output rendering for discovery results.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected table, csv or json)", s)
	}
}

// Options filter which results are rendered.
type Options struct {
	MatchedOnly   bool
	UnmatchedOnly bool
}

func (o Options) keep(r match.Result) bool {
	if o.MatchedOnly && !r.Matched {
		return false
	}
	if o.UnmatchedOnly && r.Matched {
		return false
	}
	return true
}

// Render writes the per-package results to w in the selected format.
func Render(w io.Writer, format Format, results []match.Result, opts Options) error {
	switch format {
	case FormatCSV:
		return renderCSV(w, results, opts)
	case FormatJSON:
		return renderJSON(w, results, opts)
	default:
		return renderTable(w, results, opts)
	}
}

func renderTable(w io.Writer, results []match.Result, opts Options) error {
	header := fmt.Sprintf("%-40s | %-25s | %s", "Package Name", "Version", "Repository")
	rule := strings.Repeat("-", len(header))

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, rule)

	for _, r := range results {
		if !opts.keep(r) {
			continue
		}
		repo := r.RepoID
		if !r.Matched {
			repo = "(No match)"
		}
		fmt.Fprintf(w, "%-40s | %-25s | %s\n", r.Key.Name, r.Key.EVR(), repo)
	}

	fmt.Fprintln(w, rule)
	return nil
}

func renderCSV(w io.Writer, results []match.Result, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "epoch", "version", "release", "arch", "repository"}); err != nil {
		return err
	}

	for _, r := range results {
		if !opts.keep(r) {
			continue
		}
		row := []string{r.Key.Name, r.Key.Epoch, r.Key.Version, r.Key.Release, r.Key.Arch, r.RepoID}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonResult struct {
	Name       string `json:"name"`
	Epoch      string `json:"epoch"`
	Version    string `json:"version"`
	Release    string `json:"release"`
	Arch       string `json:"arch"`
	NevraKey   string `json:"nevra_key"`
	Repository string `json:"repo,omitempty"`
}

func renderJSON(w io.Writer, results []match.Result, opts Options) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		if !opts.keep(r) {
			continue
		}
		out = append(out, jsonResult{
			Name:       r.Key.Name,
			Epoch:      r.Key.Epoch,
			Version:    r.Key.Version,
			Release:    r.Key.Release,
			Arch:       r.Key.Arch,
			NevraKey:   r.Key.Key(),
			Repository: r.RepoID,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
