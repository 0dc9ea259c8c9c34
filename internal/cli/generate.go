package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the command for generating checksum manifests.
func NewGenerateCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "generate [artifact-dir] [output-file]",
		Short: "Generate a checksum manifest from a directory of artifacts",
		Long: `Generate a checksum manifest from a directory containing jar artifacts.

Each matching file in the directory is hashed with SHA-256 and written as a
"<checksum>:<filename>" line, sorted by filename. The manifest is written
atomically, so an existing manifest is never left half-written.

Without arguments the paths come from the configuration file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if len(args) > 0 {
				cfg.Paths.ArtifactDir = args[0]
			}
			if len(args) > 1 {
				cfg.Paths.ManifestFile = args[1]
			}
			if pattern != "" {
				cfg.Settings.ArtifactPattern = pattern
			}

			// Convert to absolute paths for better error messages
			if cfg.Paths.ArtifactDir, err = filepath.Abs(cfg.Paths.ArtifactDir); err != nil {
				return fmt.Errorf("invalid artifact directory: %w", err)
			}
			if cfg.Paths.ManifestFile, err = filepath.Abs(cfg.Paths.ManifestFile); err != nil {
				return fmt.Errorf("invalid output file: %w", err)
			}

			orch, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			m, err := orch.GenerateManifest(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to generate manifest: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote %d checksums to %s\n",
				m.Len(), cfg.Paths.ManifestFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "",
		"Glob pattern for artifact filenames (default \"*.jar\")")

	cmd.Example = `  # Use the paths from fletch.yaml
  fletch generate

  # Explicit directory and output file
  fletch generate ./jars ./jars.sha256

  # Hash every file, not just jars
  fletch generate --pattern='*' ./dist ./dist.sha256`

	return cmd
}
