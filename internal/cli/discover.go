package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vikin91/repotrace/internal/index"
	"github.com/vikin91/repotrace/internal/match"
	"github.com/vikin91/repotrace/internal/models"
	"github.com/vikin91/repotrace/internal/report"
	"github.com/vikin91/repotrace/internal/rpmdb"
)

// DiscoverConfig contains configuration for origin discovery
type DiscoverConfig struct {
	IndexFiles []string
	IndexDir   string
	Format     string
	RPMFiles   []string

	MatchedOnly   bool
	UnmatchedOnly bool
}

// NewDiscoverCmd creates the discover command
func NewDiscoverCmd() *cobra.Command {
	var config DiscoverConfig

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover package origins using pre-built index files",
		Long: `Merges one or more index files built by 'repotrace build' and
cross-references the installed package set (from the RPM database)
against them. Runs entirely offline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(config.IndexFiles) == 0 && config.IndexDir == "" {
				return &models.TraceError{
					Type: models.ErrInvalidConfig,
					Err:  fmt.Errorf("either --index or --index-dir is required"),
				}
			}
			return runDiscover(cmd, &config)
		},
	}

	cmd.Flags().StringArrayVarP(&config.IndexFiles, "index", "i", nil, "Path to an index file (repeatable)")
	cmd.Flags().StringVar(&config.IndexDir, "index-dir", "", "Directory containing index files")
	cmd.Flags().StringVarP(&config.Format, "format", "f", "table", "Output format: table, csv or json")
	cmd.Flags().StringArrayVar(&config.RPMFiles, "rpm", nil, "Match the given .rpm file instead of the installed set (repeatable)")
	cmd.Flags().BoolVar(&config.MatchedOnly, "matched-only", false, "Only show packages that were matched")
	cmd.Flags().BoolVar(&config.UnmatchedOnly, "unmatched-only", false, "Only show packages that could not be matched")

	return cmd
}

func runDiscover(cmd *cobra.Command, config *DiscoverConfig) error {
	format, err := report.ParseFormat(config.Format)
	if err != nil {
		return &models.TraceError{Type: models.ErrInvalidConfig, Err: err}
	}

	merged, err := loadIndexes(config.IndexFiles, config.IndexDir)
	if err != nil {
		return err
	}

	installed, err := installedSet(cmd.Context(), config)
	if err != nil {
		return err
	}

	results, summary := match.Match(installed, merged)

	opts := report.Options{MatchedOnly: config.MatchedOnly, UnmatchedOnly: config.UnmatchedOnly}
	if err := report.Render(cmd.OutOrStdout(), format, results, opts); err != nil {
		return err
	}

	logrus.Infof("Total: %d, matched: %d, unmatched: %d",
		len(results), summary.Matched, summary.Unmatched)
	if summary.Unmatched > 0 {
		logrus.Info("Unmatched packages may come from repositories not in the index, " +
			"from versions no longer hosted, or from manually installed .rpm files")
	}
	return nil
}

// loadIndexes loads explicit index files followed by a sorted directory
// listing and merges them in load order (later files win on collision).
// Corrupt artifacts are skipped with a warning.
func loadIndexes(files []string, dir string) (map[string]string, error) {
	paths := append([]string{}, files...)

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &models.TraceError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("reading index directory: %w", err),
			}
		}
		var names []string
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() && (strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz")) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	if len(paths) == 0 {
		return nil, &models.TraceError{
			Type: models.ErrNoData,
			Err:  fmt.Errorf("no index files found"),
		}
	}

	logrus.Infof("Loading %d index file(s)", len(paths))

	var indexes []*index.Index
	for _, path := range paths {
		idx, err := index.Read(path)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", path, err)
			continue
		}
		logrus.Infof("Loaded %s: %d packages (generated %s)",
			idx.Metadata.RepoID, idx.Metadata.PackageCount, idx.Metadata.Generated)
		indexes = append(indexes, idx)
	}

	merged := index.Merge(indexes)
	if len(merged) == 0 {
		return nil, &models.TraceError{
			Type: models.ErrNoData,
			Err:  fmt.Errorf("no packages loaded from indexes; rebuild them with 'repotrace build'"),
		}
	}

	logrus.Debugf("Merged index holds %d packages", len(merged))
	return merged, nil
}

func installedSet(ctx context.Context, config *DiscoverConfig) ([]models.NevraKey, error) {
	if len(config.RPMFiles) > 0 {
		return rpmdb.PackageFiles(config.RPMFiles)
	}
	return rpmdb.InstalledPackages(ctx)
}
