package cli

import (
	"github.com/RomualdRousseau/fletch/internal/logger"
	"github.com/RomualdRousseau/fletch/pkg/config"
	"github.com/RomualdRousseau/fletch/pkg/download"
	"github.com/RomualdRousseau/fletch/pkg/hook"
	"github.com/RomualdRousseau/fletch/pkg/orchestrator"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}
	return config.GetDefaultConfigPath()
}

// loadConfig loads the configuration, applies CLI flag overrides and
// initializes logging accordingly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, err
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	return cfg, nil
}

// newOrchestrator wires the download manager and the hook scripts found
// in the configured hooks directory.
func newOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	hooks := hook.NewManager()
	if err := hook.LoadFromDir(hooks, cfg.Paths.HooksDir); err != nil {
		return nil, err
	}

	dl := download.NewManager(cfg.Settings.HTTPTimeout, "fletch/"+Version)
	authenticator, err := cfg.Authenticator()
	if err != nil {
		return nil, err
	}
	dl.SetAuthenticator(authenticator)

	return orchestrator.New(cfg, dl, hooks), nil
}
