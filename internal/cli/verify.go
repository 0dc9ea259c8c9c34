package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/manifest"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the command for verifying artifacts against the manifest.
func NewVerifyCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "verify [artifact-dir] [manifest-file]",
		Short: "Verify artifacts against the checksum manifest",
		Long: `Verify that every artifact listed in the manifest is present and has the
recorded SHA-256 checksum. Files in the directory that the manifest does not
know about are reported as untracked but do not fail the verification.`,
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

			if cfg.Paths.ArtifactDir, err = filepath.Abs(cfg.Paths.ArtifactDir); err != nil {
				return fmt.Errorf("invalid artifact directory: %w", err)
			}
			if cfg.Paths.ManifestFile, err = filepath.Abs(cfg.Paths.ManifestFile); err != nil {
				return fmt.Errorf("invalid manifest file: %w", err)
			}

			orch, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			results, err := orch.VerifyArtifacts(cmd.Context())
			if err != nil {
				return err
			}

			if !quiet {
				printVerifyResults(cmd, results)
			}

			ok, failed := countVerifyResults(results)
			if failed > 0 {
				return errors.Wrapf(errors.ErrChecksumMismatch,
					"%d of %d artifacts failed verification", failed, ok+failed)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Verified %d artifacts\n", ok)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report the final result")

	return cmd
}

func printVerifyResults(cmd *cobra.Command, results []manifest.Result) {
	tabWriter := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "FILE\tSTATUS")
	for _, r := range results {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\n", r.Name, r.Status)
	}
	_ = tabWriter.Flush()
}

func countVerifyResults(results []manifest.Result) (ok, failed int) {
	for _, r := range results {
		switch r.Status {
		case manifest.StatusOK:
			ok++
		case manifest.StatusMismatch, manifest.StatusMissing:
			failed++
		}
	}
	return ok, failed
}
