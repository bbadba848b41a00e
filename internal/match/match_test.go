package match

import (
	"testing"

	"github.com/vikin91/repotrace/internal/models"
)

func nevra(name, epoch, version, release, arch string) models.NevraKey {
	return models.NevraKey{Name: name, Epoch: epoch, Version: version, Release: release, Arch: arch}
}

func TestMatchIsExactKeyEquality(t *testing.T) {
	merged := map[string]string{
		"bash|0|5.1.8|6.el9|x86_64": "repoA",
	}

	results, summary := Match([]models.NevraKey{nevra("bash", "0", "5.1.8", "6.el9", "x86_64")}, merged)
	if summary.Matched != 1 || summary.Unmatched != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !results[0].Matched || results[0].RepoID != "repoA" {
		t.Errorf("expected match against repoA, got %+v", results[0])
	}

	// one field off means no match, no fuzzy fallback
	results, summary = Match([]models.NevraKey{nevra("bash", "0", "5.1.8", "7.el9", "x86_64")}, merged)
	if summary.Matched != 0 || summary.Unmatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if results[0].Matched || results[0].RepoID != "" {
		t.Errorf("release change must not match, got %+v", results[0])
	}
}

func TestMatchEpochSentinelEquivalence(t *testing.T) {
	// catalog side: epoch attribute absent, normalized to "0" at ingestion
	merged := map[string]string{
		nevra("zlib", "", "1.2.11", "40.el9", "x86_64").Key(): "repoA",
	}

	// installed side: rpm reports "(none)"
	results, _ := Match([]models.NevraKey{nevra("zlib", "(none)", "1.2.11", "40.el9", "x86_64")}, merged)
	if !results[0].Matched {
		t.Error("\"(none)\" epoch must match absent catalog epoch")
	}
}

func TestMatchEndToEndScenario(t *testing.T) {
	merged := map[string]string{
		"foo|0|1.0|1|x86_64": "repoA",
	}
	installed := []models.NevraKey{
		nevra("foo", "0", "1.0", "1", "x86_64"),
		nevra("bar", "0", "2.0", "1", "x86_64"),
	}

	results, summary := Match(installed, merged)
	if summary.Matched != 1 || summary.Unmatched != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// results are sorted by package name
	if results[0].Key.Name != "bar" || results[0].Matched {
		t.Errorf("expected bar unmatched first, got %+v", results[0])
	}
	if results[1].Key.Name != "foo" || results[1].RepoID != "repoA" {
		t.Errorf("expected foo matched to repoA, got %+v", results[1])
	}
}

func TestMatchEmptyInstalledSet(t *testing.T) {
	results, summary := Match(nil, map[string]string{"foo|0|1.0|1|x86_64": "repoA"})
	if len(results) != 0 || summary.Matched != 0 || summary.Unmatched != 0 {
		t.Errorf("expected empty result, got %v %+v", results, summary)
	}
}
