package models

import (
	"fmt"
	"strings"
)

// KeySeparator joins the five NEVRA fields into a canonical key. It is
// guaranteed absent from valid package name/version/arch tokens.
const KeySeparator = "|"

// NevraKey is the composite identity of a package build:
// name, epoch, version, release, architecture.
type NevraKey struct {
	Name    string
	Epoch   string
	Version string
	Release string
	Arch    string
}

// NormalizeEpoch maps the "unset epoch" sentinels to "0" so that catalog
// and installed-package records are always comparable.
func NormalizeEpoch(epoch string) string {
	if epoch == "" || epoch == "(none)" {
		return "0"
	}
	return epoch
}

// Key returns the canonical textual form: the five fields joined by "|".
func (n NevraKey) Key() string {
	return strings.Join([]string{n.Name, NormalizeEpoch(n.Epoch), n.Version, n.Release, n.Arch}, KeySeparator)
}

// EVR returns the human-readable epoch:version-release form, omitting the
// epoch when it is zero.
func (n NevraKey) EVR() string {
	epoch := NormalizeEpoch(n.Epoch)
	if epoch != "0" {
		return fmt.Sprintf("%s:%s-%s", epoch, n.Version, n.Release)
	}
	return fmt.Sprintf("%s-%s", n.Version, n.Release)
}

// ParseKey parses a canonical key back into a NevraKey.
func ParseKey(key string) (NevraKey, error) {
	parts := strings.Split(key, KeySeparator)
	if len(parts) != 5 {
		return NevraKey{}, fmt.Errorf("invalid NEVRA key %q: expected 5 fields, got %d", key, len(parts))
	}
	return NevraKey{
		Name:    parts[0],
		Epoch:   NormalizeEpoch(parts[1]),
		Version: parts[2],
		Release: parts[3],
		Arch:    parts[4],
	}, nil
}
