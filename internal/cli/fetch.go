package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFetchCmd creates the command for downloading pinned dependencies.
func NewFetchCmd() *cobra.Command {
	var (
		allNative        bool
		requireChecksums bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download pinned dependencies into the artifact directory",
		Long: `Download every dependency listed in the dependency file into the artifact
directory. Artifacts already present with a matching checksum are reused.

Native artifacts whose classifier does not match the target platform are
skipped unless --all-native is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if allNative {
				cfg.Settings.FetchAllNative = true
			}
			if requireChecksums {
				cfg.Settings.RequireChecksums = true
			}

			orch, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			count, err := orch.FetchDependencies(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch dependencies: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d artifacts into %s\n",
				count, cfg.Paths.ArtifactDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allNative, "all-native", false,
		"Fetch native artifacts for every platform, not just the current one")
	cmd.Flags().BoolVar(&requireChecksums, "require-checksums", false,
		"Fail when a dependency has no recorded checksum")

	cmd.Example = `  # Fetch using the paths from fletch.yaml
  fletch fetch

  # Populate a release bundle with natives for all platforms
  fletch fetch --all-native --require-checksums`

	return cmd
}
