package repomd

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// CachedPrimary is a primary catalog file found in a local metadata cache.
type CachedPrimary struct {
	RepoID   string
	Path     string
	Encoding Encoding
}

// DNF cache directories are named <repo-id>-<16 hex chars>; the suffix is a
// content hash added by the caching layer.
var cacheHashSuffix = regexp.MustCompile(`^(.+)-[a-f0-9]{16}$`)

var xmlSuffixes = []string{".xml", ".xml.gz", ".xml.bz2", ".xml.xz"}
var sqliteSuffixes = []string{".sqlite.bz2", ".sqlite.gz"}

// ScanCache walks a cache directory tree (e.g. /var/cache/dnf) and locates
// one primary catalog per repodata directory. An empty result is not an
// error; the caller decides whether "nothing found" is fatal.
func ScanCache(dir string) ([]CachedPrimary, error) {
	var found []CachedPrimary

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logrus.Warnf("Skipping %s: %v", path, err)
			return nil
		}
		if !info.IsDir() || info.Name() != "repodata" {
			return nil
		}

		repoID := repoIDFromCacheDir(filepath.Base(filepath.Dir(path)))

		primary, ok := selectPrimary(path)
		if !ok {
			return filepath.SkipDir
		}
		primary.RepoID = repoID
		found = append(found, primary)

		logrus.Debugf("Found %s primary for %s: %s", primary.Encoding, repoID, primary.Path)
		return filepath.SkipDir
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// repoIDFromCacheDir derives a repo ID from a cache directory name by
// stripping the trailing content-hash suffix when present.
func repoIDFromCacheDir(name string) string {
	if m := cacheHashSuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// selectPrimary picks the primary catalog inside one repodata directory.
// When the directory carries a repomd.xml, the href it declares for
// type="primary" is authoritative; otherwise fall back to filename
// sniffing over a sorted listing so the choice is deterministic.
func selectPrimary(repodataDir string) (CachedPrimary, bool) {
	if data, err := os.ReadFile(filepath.Join(repodataDir, "repomd.xml")); err == nil {
		if href, err := parseRepomd(data); err == nil {
			path := filepath.Join(repodataDir, filepath.Base(href))
			if enc, ok := ClassifyPrimary(filepath.Base(href)); ok {
				if _, err := os.Stat(path); err == nil {
					return CachedPrimary{Path: path, Encoding: enc}, true
				}
			}
		}
	}

	entries, err := os.ReadDir(repodataDir)
	if err != nil {
		logrus.Warnf("Cannot read %s: %v", repodataDir, err)
		return CachedPrimary{}, false
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if !strings.Contains(name, "primary") {
			continue
		}
		if enc, ok := ClassifyPrimary(name); ok {
			return CachedPrimary{Path: filepath.Join(repodataDir, name), Encoding: enc}, true
		}
	}

	return CachedPrimary{}, false
}

// ClassifyPrimary maps a primary catalog filename to its encoding.
func ClassifyPrimary(name string) (Encoding, bool) {
	if !strings.Contains(name, "primary") {
		return 0, false
	}
	for _, suffix := range xmlSuffixes {
		if strings.HasSuffix(name, suffix) {
			return EncodingXML, true
		}
	}
	for _, suffix := range sqliteSuffixes {
		if strings.HasSuffix(name, suffix) {
			return EncodingSQLite, true
		}
	}
	return 0, false
}
