package rpmdb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
	"github.com/vikin91/repotrace/internal/models"
)

const queryFormat = `%{NAME}|%{EPOCH}|%{VERSION}|%{RELEASE}|%{ARCH}\n`

// InstalledPackages queries the system RPM database for the NEVRA identity
// of every installed package. It shells out to rpm directly and does not
// need dnf or any network access.
func InstalledPackages(ctx context.Context) ([]models.NevraKey, error) {
	cmd := exec.CommandContext(ctx, "rpm", "-qa", "--queryformat", queryFormat)

	out, err := cmd.Output()
	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrNoData,
			Err:  fmt.Errorf("rpm query failed (is this an RPM-based system?): %w", err),
		}
	}

	packages := parseQueryOutput(string(out))
	if len(packages) == 0 {
		return nil, &models.TraceError{
			Type: models.ErrNoData,
			Err:  fmt.Errorf("no installed packages found; verify the RPM database (rpm --rebuilddb)"),
		}
	}

	logrus.Debugf("Found %d installed packages", len(packages))
	return packages, nil
}

// parseQueryOutput splits rpm -qa output in the fixed field-order format
// name|epoch|version|release|arch, one package per line. The "(none)"
// epoch sentinel is normalized to "0". Malformed lines are skipped.
func parseQueryOutput(out string) []models.NevraKey {
	var packages []models.NevraKey
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, models.KeySeparator)
		if len(parts) != 5 {
			continue
		}
		packages = append(packages, models.NevraKey{
			Name:    parts[0],
			Epoch:   models.NormalizeEpoch(parts[1]),
			Version: parts[2],
			Release: parts[3],
			Arch:    parts[4],
		})
	}
	return packages
}

// PackageFiles reads the NEVRA identity out of local .rpm files. It lets
// discovery answer "which repository provides this file" for packages that
// were installed by hand.
func PackageFiles(paths []string) ([]models.NevraKey, error) {
	var packages []models.NevraKey
	for _, path := range paths {
		key, err := packageFile(path)
		if err != nil {
			return nil, &models.TraceError{
				Type: models.ErrParse,
				Err:  fmt.Errorf("reading %s: %w", path, err),
			}
		}
		packages = append(packages, key)
	}
	return packages, nil
}

func packageFile(path string) (models.NevraKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.NevraKey{}, err
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return models.NevraKey{}, fmt.Errorf("reading RPM header: %w", err)
	}

	nevra, err := rpm.Header.GetNEVRA()
	if err != nil {
		return models.NevraKey{}, fmt.Errorf("reading NEVRA: %w", err)
	}

	return models.NevraKey{
		Name:    nevra.Name,
		Epoch:   models.NormalizeEpoch(nevra.Epoch),
		Version: nevra.Version,
		Release: nevra.Release,
		Arch:    nevra.Arch,
	}, nil
}
