package models

import "testing"

func TestKeyJoinsFieldsWithSeparator(t *testing.T) {
	n := NevraKey{Name: "bash", Epoch: "0", Version: "5.1.8", Release: "6.el9", Arch: "x86_64"}

	if got := n.Key(); got != "bash|0|5.1.8|6.el9|x86_64" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestKeyNormalizesEpoch(t *testing.T) {
	cases := []struct {
		epoch string
		want  string
	}{
		{"", "openssl|0|3.0.7|27.el9|x86_64"},
		{"(none)", "openssl|0|3.0.7|27.el9|x86_64"},
		{"0", "openssl|0|3.0.7|27.el9|x86_64"},
		{"1", "openssl|1|3.0.7|27.el9|x86_64"},
	}

	for _, c := range cases {
		n := NevraKey{Name: "openssl", Epoch: c.epoch, Version: "3.0.7", Release: "27.el9", Arch: "x86_64"}
		if got := n.Key(); got != c.want {
			t.Errorf("epoch %q: got %s, want %s", c.epoch, got, c.want)
		}
	}
}

func TestSentinelEpochMatchesAbsentEpoch(t *testing.T) {
	// rpm reports "(none)" for unset epochs while catalogs omit the
	// attribute entirely. Both sides must produce the same key.
	installed := NevraKey{Name: "zlib", Epoch: "(none)", Version: "1.2.11", Release: "40.el9", Arch: "x86_64"}
	catalog := NevraKey{Name: "zlib", Epoch: "", Version: "1.2.11", Release: "40.el9", Arch: "x86_64"}

	if installed.Key() != catalog.Key() {
		t.Errorf("keys differ: %s vs %s", installed.Key(), catalog.Key())
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	n := NevraKey{Name: "bash", Epoch: "1", Version: "5.1.8", Release: "6.el9", Arch: "x86_64"}

	parsed, err := ParseKey(n.Key())
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if parsed != n {
		t.Errorf("round trip mismatch: got %+v, want %+v", parsed, n)
	}
}

func TestParseKeyRejectsWrongFieldCount(t *testing.T) {
	if _, err := ParseKey("bash|0|5.1.8"); err == nil {
		t.Error("expected error for 3-field key")
	}
}

func TestEVR(t *testing.T) {
	withEpoch := NevraKey{Name: "bash", Epoch: "2", Version: "5.1.8", Release: "6.el9", Arch: "x86_64"}
	if got := withEpoch.EVR(); got != "2:5.1.8-6.el9" {
		t.Errorf("unexpected EVR: %s", got)
	}

	zeroEpoch := NevraKey{Name: "bash", Epoch: "0", Version: "5.1.8", Release: "6.el9", Arch: "x86_64"}
	if got := zeroEpoch.EVR(); got != "5.1.8-6.el9" {
		t.Errorf("unexpected EVR: %s", got)
	}
}
