package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/RomualdRousseau/fletch/internal/logger"
	"github.com/RomualdRousseau/fletch/pkg/artifact"
	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/spf13/cobra"
)

// NewListCmd creates the command for listing bundled artifacts.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [artifact-dir]",
		Short: "List bundled artifacts with their metadata",
		Long: `List the artifacts in the artifact directory. Title and version are read
from each jar's META-INF/MANIFEST.MF when present.`,
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

			infos, err := inspectDir(cmd, dir, cfg.Settings.ArtifactPattern)
			if err != nil {
				return err
			}

			if OutputFormat != nil && *OutputFormat == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			printArtifactTable(cmd, infos)
			return nil
		},
	}

	return cmd
}

func inspectDir(cmd *cobra.Command, dir, pattern string) ([]*artifact.Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "cannot read %s: %v", dir, err)
	}

	infos := make([]*artifact.Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		match, err := filepath.Match(pattern, entry.Name())
		if err != nil || !match {
			continue
		}

		info, err := artifact.Inspect(cmd.Context(), filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warnf("skipping %s: %v", entry.Name(), err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func printArtifactTable(cmd *cobra.Command, infos []*artifact.Info) {
	tabWriter := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "FILE\tSIZE\tTITLE\tVERSION\tSHA256")
	for _, info := range infos {
		title := info.Title
		if title == "" {
			title = "-"
		}
		version := info.Version
		if version == "" {
			version = "-"
		}
		_, _ = fmt.Fprintf(tabWriter, "%s\t%d\t%s\t%s\t%s\n",
			info.File, info.Size, title, version, shortChecksum(info.Checksum))
	}
	_ = tabWriter.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d artifacts\n", len(infos))
}

func shortChecksum(sum string) string {
	if len(sum) <= ChecksumDisplayLength {
		return sum
	}
	return sum[:ChecksumDisplayLength]
}
