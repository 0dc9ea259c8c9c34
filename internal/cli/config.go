package cli

import (
	"fmt"
	"os"

	"github.com/RomualdRousseau/fletch/internal/logger"
	"github.com/RomualdRousseau/fletch/pkg/config"
	"github.com/RomualdRousseau/fletch/pkg/fsutil"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and initialize fletch configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Display the effective configuration after defaults and environment overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := cfg.ToYAML()
			if err != nil {
				return err
			}

			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a configuration file with the default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := getConfigPath()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", path)
			}

			data, err := config.DefaultConfig().ToYAML()
			if err != nil {
				return err
			}

			if err := os.WriteFile(path, data, fsutil.FileModeDefault); err != nil {
				return fmt.Errorf("failed to write configuration: %w", err)
			}

			logger.Info("Configuration created", logger.Fields{"path": path})
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}
