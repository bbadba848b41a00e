package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the repotrace release version; it is also embedded in the
// User-Agent header of metadata fetches.
const Version = "1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repotrace",
		Short: "Discover which repository each installed RPM package came from",
		Long: `Repotrace determines the origin repository of installed packages by
cross-referencing their NEVRA identity against repository metadata,
without relying on the dnf history database.

On a connected system, 'build' turns repository metadata (a direct URL,
a .repo config file, or a local dnf cache) into compact NEVRA index
files. On the target system - typically air-gapped - 'discover' merges
those indexes and matches them against the installed package set.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewDiscoverCmd())

	return rootCmd
}
