package cli

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vikin91/repotrace/internal/catalog"
	"github.com/vikin91/repotrace/internal/fetch"
	"github.com/vikin91/repotrace/internal/index"
	"github.com/vikin91/repotrace/internal/models"
	"github.com/vikin91/repotrace/internal/repoconf"
	"github.com/vikin91/repotrace/internal/repomd"
	"github.com/vikin91/repotrace/internal/verify"
)

// BuildConfig contains configuration for index building
type BuildConfig struct {
	// Source (exactly one)
	BaseURL    string
	RepoConfig string
	FromCache  string

	RepoID     string
	Output     string
	Compress   bool
	Insecure   bool
	ReleaseVer string
	BaseArch   string
	GPGKeyPath string
}

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var config BuildConfig

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build NEVRA index files from repository metadata",
		Long: `Builds a compact NEVRA-to-repository index from one metadata source:
a direct repository URL, the enabled repositories of a .repo config
file, or a local dnf cache directory (no network required). The index
files are later consumed by 'repotrace discover'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateBuildConfig(&config); err != nil {
				return err
			}
			return runBuild(cmd.Context(), &config)
		},
	}

	cmd.Flags().StringVar(&config.BaseURL, "baseurl", "", "Direct URL to the repository (requires network)")
	cmd.Flags().StringVar(&config.RepoConfig, "repo-config", "", "Path to a .repo config file; enabled repositories are fetched")
	cmd.Flags().StringVar(&config.FromCache, "from-cache", "", "Build from a local cache directory (e.g. /var/cache/dnf), no network")

	cmd.Flags().StringVar(&config.RepoID, "repo-id", "", "Repository ID (required with --baseurl)")
	cmd.Flags().StringVarP(&config.Output, "output", "o", "", "Output file path or directory (required)")
	cmd.Flags().BoolVar(&config.Compress, "compress", false, "Compress output with gzip")
	cmd.Flags().BoolVarP(&config.Insecure, "insecure", "k", false, "Disable TLS certificate verification (use with caution)")
	cmd.Flags().StringVar(&config.ReleaseVer, "releasever", "", "Value for $releasever in URLs (e.g. 9)")
	cmd.Flags().StringVar(&config.BaseArch, "basearch", "", "Value for $basearch in URLs (e.g. x86_64)")
	cmd.Flags().StringVar(&config.GPGKeyPath, "gpgkey", "", "Public key to verify repomd.xml signatures against")

	return cmd
}

func validateBuildConfig(config *BuildConfig) error {
	sources := 0
	for _, s := range []string{config.BaseURL, config.RepoConfig, config.FromCache} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return &models.TraceError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("exactly one of --baseurl, --repo-config or --from-cache is required"),
		}
	}
	if config.BaseURL != "" && config.RepoID == "" {
		return &models.TraceError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("--repo-id is required with --baseurl"),
		}
	}
	if config.Output == "" {
		return &models.TraceError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("--output is required"),
		}
	}
	return nil
}

func runBuild(ctx context.Context, config *BuildConfig) error {
	var (
		indexes []*index.Index
		err     error
	)

	if config.FromCache != "" {
		indexes, err = buildFromCache(config)
	} else {
		indexes, err = buildFromNetwork(ctx, config)
	}
	if err != nil {
		return err
	}

	if len(indexes) == 0 {
		return &models.TraceError{
			Type: models.ErrNoData,
			Err:  fmt.Errorf("no indexes were built; check the metadata source and warnings above"),
		}
	}

	return writeIndexes(indexes, config)
}

// buildFromNetwork builds one index per repository resolved from --baseurl
// or --repo-config. A failure on one repository is logged and the remaining
// repositories are still processed.
func buildFromNetwork(ctx context.Context, config *BuildConfig) ([]*index.Index, error) {
	repos, err := resolveRepos(config)
	if err != nil {
		return nil, err
	}

	client := fetch.NewClient(fetch.TLSPolicy{Insecure: config.Insecure}, "repotrace/"+Version)

	var verifier repomd.Verifier
	if config.GPGKeyPath != "" {
		v, err := verify.NewVerifier(config.GPGKeyPath)
		if err != nil {
			return nil, &models.TraceError{Type: models.ErrInvalidConfig, Err: err}
		}
		verifier = v
	}

	var indexes []*index.Index
	for _, repo := range repos {
		idx, err := buildFromURL(ctx, client, verifier, repo.ID, repo.BaseURL)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", repo.ID, err)
			continue
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

func resolveRepos(config *BuildConfig) ([]repoconf.Repo, error) {
	if config.BaseURL != "" {
		baseurl := repoconf.SubstituteVars(config.BaseURL, config.ReleaseVer, config.BaseArch)
		if strings.Contains(baseurl, "$") {
			return nil, &models.TraceError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("URL contains unsubstituted variables: %s (use --releasever/--basearch)", baseurl),
			}
		}
		return []repoconf.Repo{{ID: config.RepoID, BaseURL: baseurl}}, nil
	}
	return repoconf.Parse(config.RepoConfig, config.ReleaseVer, config.BaseArch)
}

// buildFromURL runs the connected-side pipeline for one repository:
// locate the primary catalog, fetch it, decompress, parse, build.
func buildFromURL(ctx context.Context, client *fetch.Client, verifier repomd.Verifier, repoID, baseURL string) (*index.Index, error) {
	logrus.Infof("Building index for %s from %s", repoID, baseURL)

	href, err := repomd.ResolvePrimary(ctx, client, baseURL, verifier)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Primary metadata: %s", href)

	raw, err := client.Get(ctx, strings.TrimRight(baseURL, "/")+"/"+href)
	if err != nil {
		return nil, err
	}

	data, err := fetch.Decompress(href, raw)
	if err != nil {
		return nil, err
	}

	encoding, ok := repomd.ClassifyPrimary(path.Base(href))
	if !ok {
		encoding = repomd.EncodingXML
	}

	records, err := catalog.ForEncoding(encoding).Parse(data, repoID)
	if err != nil {
		return nil, err
	}

	idx := index.Build(repoID, baseURL, records)
	logrus.Infof("Indexed %d packages for %s", idx.Metadata.PackageCount, repoID)
	return idx, nil
}

// buildFromCache builds one index per repository found in a local metadata
// cache directory. No network access is performed.
func buildFromCache(config *BuildConfig) ([]*index.Index, error) {
	logrus.Infof("Scanning cache directory: %s", config.FromCache)

	if fi, err := os.Stat(config.FromCache); err != nil || !fi.IsDir() {
		return nil, &models.TraceError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("cache directory not found: %s", config.FromCache),
		}
	}

	primaries, err := repomd.ScanCache(config.FromCache)
	if err != nil {
		return nil, &models.TraceError{Type: models.ErrInvalidConfig, Err: err}
	}
	if len(primaries) == 0 {
		return nil, &models.TraceError{
			Type: models.ErrNoData,
			Err: fmt.Errorf("no primary metadata found under %s (expected <repo-id>-<hash>/repodata/)",
				config.FromCache),
		}
	}

	logrus.Infof("Found %d repository metadata files", len(primaries))

	var indexes []*index.Index
	for _, primary := range primaries {
		idx, err := buildFromFile(primary)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", primary.RepoID, err)
			continue
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

func buildFromFile(primary repomd.CachedPrimary) (*index.Index, error) {
	raw, err := os.ReadFile(primary.Path)
	if err != nil {
		return nil, &models.TraceError{Type: models.ErrDecode, Repo: primary.RepoID, Err: err}
	}

	data, err := fetch.Decompress(primary.Path, raw)
	if err != nil {
		return nil, err
	}

	records, err := catalog.ForEncoding(primary.Encoding).Parse(data, primary.RepoID)
	if err != nil {
		return nil, err
	}

	idx := index.Build(primary.RepoID, primary.Path, records)
	logrus.Infof("Indexed %d packages for %s", idx.Metadata.PackageCount, primary.RepoID)
	return idx, nil
}

// writeIndexes persists the built indexes. A directory output (or any
// multi-repository source) gets one <repo-id>.json file per index.
func writeIndexes(indexes []*index.Index, config *BuildConfig) error {
	outputIsDir := len(indexes) > 1
	if fi, err := os.Stat(config.Output); err == nil && fi.IsDir() {
		outputIsDir = true
	}

	for _, idx := range indexes {
		target := config.Output
		if outputIsDir {
			target = filepath.Join(config.Output, idx.Metadata.RepoID+".json")
		}

		written, err := index.Write(idx, target, config.Compress)
		if err != nil {
			return &models.TraceError{Type: models.ErrInvalidConfig, Err: err}
		}
		logrus.Infof("Index saved: %s (%d packages)", written, idx.Metadata.PackageCount)
	}
	return nil
}
