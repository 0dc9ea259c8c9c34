package cli

import (
	goerrors "errors"
	"fmt"
	"path/filepath"

	"github.com/RomualdRousseau/fletch/pkg/cache"
	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/manifest"
	"github.com/spf13/cobra"
)

// NewCleanCmd creates the command for removing stale artifacts.
func NewCleanCmd() *cobra.Command {
	var (
		all    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "clean [artifact-dir]",
		Short: "Remove artifacts the manifest does not track",
		Long: `Remove artifacts from the artifact directory that the checksum manifest
does not track, typically jars left behind by dependency upgrades.

With --all every matching artifact is removed, tracked or not.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dir := cfg.Paths.ArtifactDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir, err = filepath.Abs(dir); err != nil {
				return fmt.Errorf("invalid artifact directory: %w", err)
			}

			m, err := manifest.Load(cfg.Paths.ManifestFile)
			if err != nil {
				if !goerrors.Is(err, errors.ErrManifestNotFound) {
					return err
				}
				if !all {
					return fmt.Errorf("no manifest at %s; use --all to clean without one: %w",
						cfg.Paths.ManifestFile, err)
				}
				m = nil
			}

			result, err := cache.NewManager(dir, cfg.Settings.ArtifactPattern).
				Clean(m, cache.CleanOptions{All: all, DryRun: dryRun})
			if err != nil {
				return err
			}

			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			for _, name := range result.FilesRemoved {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d artifacts (%d bytes)\n",
				verb, len(result.FilesRemoved), result.BytesFreed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every matching artifact, not just untracked ones")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be removed without deleting")

	return cmd
}
