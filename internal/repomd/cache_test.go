package repomd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCacheFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}

func TestScanCacheStripsHashSuffix(t *testing.T) {
	cache := t.TempDir()
	writeCacheFile(t, cache, "baseos-1a2b3c4d5e6f7a8b", "repodata", "abc-primary.xml.gz")

	found, err := ScanCache(cache)
	if err != nil {
		t.Fatalf("ScanCache failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 primary, got %d", len(found))
	}
	if found[0].RepoID != "baseos" {
		t.Errorf("hash suffix not stripped: %s", found[0].RepoID)
	}
	if found[0].Encoding != EncodingXML {
		t.Errorf("unexpected encoding: %s", found[0].Encoding)
	}
}

func TestScanCacheKeepsPlainDirName(t *testing.T) {
	cache := t.TempDir()
	// no 16-hex suffix, directory name used verbatim
	writeCacheFile(t, cache, "appstream", "repodata", "def-primary.sqlite.bz2")

	found, err := ScanCache(cache)
	if err != nil {
		t.Fatalf("ScanCache failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 primary, got %d", len(found))
	}
	if found[0].RepoID != "appstream" {
		t.Errorf("unexpected repo id: %s", found[0].RepoID)
	}
	if found[0].Encoding != EncodingSQLite {
		t.Errorf("unexpected encoding: %s", found[0].Encoding)
	}
}

func TestScanCacheSelectsOnePrimaryPerRepodata(t *testing.T) {
	cache := t.TempDir()
	writeCacheFile(t, cache, "baseos-1a2b3c4d5e6f7a8b", "repodata", "aaa-primary.xml.gz")
	writeCacheFile(t, cache, "baseos-1a2b3c4d5e6f7a8b", "repodata", "bbb-primary.sqlite.bz2")

	found, err := ScanCache(cache)
	if err != nil {
		t.Fatalf("ScanCache failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly 1 primary per repodata dir, got %d", len(found))
	}
	// sorted fallback: aaa-primary.xml.gz sorts first
	if filepath.Base(found[0].Path) != "aaa-primary.xml.gz" {
		t.Errorf("unexpected selection: %s", found[0].Path)
	}
}

func TestScanCachePrefersRepomdDeclaredPrimary(t *testing.T) {
	cache := t.TempDir()
	writeCacheFile(t, cache, "baseos", "repodata", "aaa-primary.xml.gz")
	writeCacheFile(t, cache, "baseos", "repodata", "zzz-primary.xml.gz")

	repomdPath := filepath.Join(cache, "baseos", "repodata", "repomd.xml")
	doc := `<repomd xmlns="http://linux.duke.edu/metadata/repo">
  <data type="primary"><location href="repodata/zzz-primary.xml.gz"/></data>
</repomd>`
	if err := os.WriteFile(repomdPath, []byte(doc), 0644); err != nil {
		t.Fatalf("write repomd.xml failed: %v", err)
	}

	found, err := ScanCache(cache)
	if err != nil {
		t.Fatalf("ScanCache failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 primary, got %d", len(found))
	}
	if filepath.Base(found[0].Path) != "zzz-primary.xml.gz" {
		t.Errorf("repomd.xml declaration should win over sniffing, got %s", found[0].Path)
	}
}

func TestScanCacheEmptyTreeIsNotAnError(t *testing.T) {
	found, err := ScanCache(t.TempDir())
	if err != nil {
		t.Fatalf("ScanCache failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no primaries, got %d", len(found))
	}
}

func TestClassifyPrimary(t *testing.T) {
	cases := []struct {
		name string
		enc  Encoding
		ok   bool
	}{
		{"abc-primary.xml", EncodingXML, true},
		{"abc-primary.xml.gz", EncodingXML, true},
		{"abc-primary.xml.bz2", EncodingXML, true},
		{"abc-primary.xml.xz", EncodingXML, true},
		{"abc-primary.sqlite.bz2", EncodingSQLite, true},
		{"abc-primary.sqlite.gz", EncodingSQLite, true},
		{"abc-filelists.xml.gz", 0, false},
		{"abc-primary.sqlite", 0, false},
	}

	for _, c := range cases {
		enc, ok := ClassifyPrimary(c.name)
		if ok != c.ok || (ok && enc != c.enc) {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", c.name, enc, ok, c.enc, c.ok)
		}
	}
}
