package repoconf

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vikin91/repotrace/internal/models"
	"gopkg.in/ini.v1"
)

// Repo is one enabled repository resolved from a .repo configuration file.
type Repo struct {
	ID      string
	BaseURL string
}

// Parse reads a yum/dnf .repo file and returns the enabled repositories
// that expose a usable base URL. Sections carrying only metalink or
// mirrorlist entries are skipped with a warning: resolving mirrors is out
// of scope. releasever and basearch substitute the $releasever and
// $basearch tokens; a URL that still contains '$' after substitution is
// rejected rather than fetched.
func Parse(path, releasever, basearch string) ([]Repo, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("reading repo config %s: %w", path, err),
		}
	}

	var repos []Repo
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}

		if !section.Key("enabled").MustBool(true) {
			logrus.Debugf("Skipping disabled repository: %s", section.Name())
			continue
		}

		baseurl := firstBaseURL(section.Key("baseurl").String())
		if baseurl == "" {
			if section.HasKey("metalink") || section.HasKey("mirrorlist") {
				logrus.Warnf("Skipping %s: metalink/mirrorlist resolution is not supported", section.Name())
			} else {
				logrus.Warnf("Skipping %s: no baseurl", section.Name())
			}
			continue
		}

		baseurl = SubstituteVars(baseurl, releasever, basearch)
		if strings.Contains(baseurl, "$") {
			logrus.Warnf("Skipping %s: URL contains unsubstituted variables: %s (use --releasever/--basearch)",
				section.Name(), baseurl)
			continue
		}

		repos = append(repos, Repo{ID: section.Name(), BaseURL: baseurl})
	}

	if len(repos) == 0 {
		return nil, &models.TraceError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("no enabled repositories with a usable baseurl in %s", path),
		}
	}

	return repos, nil
}

// firstBaseURL picks the first entry of a newline-separated baseurl list.
func firstBaseURL(value string) string {
	for _, line := range strings.Split(value, "\n") {
		if url := strings.TrimSpace(line); url != "" {
			return url
		}
	}
	return ""
}

// SubstituteVars replaces $releasever and $basearch tokens when values are
// supplied.
func SubstituteVars(url, releasever, basearch string) string {
	if releasever != "" {
		url = strings.ReplaceAll(url, "$releasever", releasever)
	}
	if basearch != "" {
		url = strings.ReplaceAll(url, "$basearch", basearch)
	}
	return url
}
