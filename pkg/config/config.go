// Package config provides configuration management for fletch. It
// handles loading and validating the YAML configuration that points at
// the Maven repositories, the artifact directory and the manifest file,
// with sensible defaults and FLETCH_* environment overrides.
package config

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/RomualdRousseau/fletch/pkg/auth"
	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/manifest"
	"github.com/RomualdRousseau/fletch/pkg/platform"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Maven    MavenConfig `yaml:"maven"`
	Paths    PathsConfig `yaml:"paths"`
	Settings Settings    `yaml:"settings"`
}

// MavenConfig points at the repositories artifacts are fetched from.
type MavenConfig struct {
	ReleaseURL  string     `yaml:"release_url"`
	SnapshotURL string     `yaml:"snapshot_url"`
	Auth        AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig holds credentials for private repository mirrors. The
// zero value means anonymous access.
type AuthConfig struct {
	// Type is one of "basic", "bearer" or "header".
	Type     string            `yaml:"type,omitempty"`
	Username string            `yaml:"username,omitempty"`
	Password string            `yaml:"password,omitempty"`
	Token    string            `yaml:"token,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
}

// PathsConfig holds the project file locations. All paths are explicit
// so nothing depends on the process working directory.
type PathsConfig struct {
	// ArtifactDir is the directory holding the bundled .jar artifacts.
	ArtifactDir string `yaml:"artifact_dir"`
	// DependencyFile lists the pinned Maven coordinates.
	DependencyFile string `yaml:"dependency_file"`
	// ManifestFile is the checksum manifest covering ArtifactDir.
	ManifestFile string `yaml:"manifest_file"`
	// HooksDir optionally holds <hook-type>.tengo scripts.
	HooksDir string `yaml:"hooks_dir,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// ArtifactPattern is the glob matched against artifact file names.
	ArtifactPattern string `yaml:"artifact_pattern"`
	// RequireChecksums makes a dependency without a manifest entry fatal.
	RequireChecksums bool `yaml:"require_checksums"`
	// FetchAllNative disables platform filtering of native classifiers.
	FetchAllNative bool `yaml:"fetch_all_native"`

	// Network settings
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_downloads"`

	// Platform overrides the detected platform for classifier filtering.
	Platform platform.Platform `yaml:"platform,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default configuration values.
const (
	DefaultReleaseURL  = "https://repo1.maven.org/maven2"
	DefaultSnapshotURL = "https://oss.sonatype.org/content/repositories/snapshots"

	DefaultArtifactDir    = "jars"
	DefaultDependencyFile = "dependencies"
	DefaultManifestFile   = "dependencies.sha256"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 60 * time.Second
	// DefaultMaxConcurrent is the default maximum number of concurrent downloads.
	DefaultMaxConcurrent = 4
)

// DefaultConfigFileName is the config file looked up in the project root.
const DefaultConfigFileName = "fletch.yaml"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Maven: MavenConfig{
			ReleaseURL:  DefaultReleaseURL,
			SnapshotURL: DefaultSnapshotURL,
		},
		Paths: PathsConfig{
			ArtifactDir:    DefaultArtifactDir,
			DependencyFile: DefaultDependencyFile,
			ManifestFile:   DefaultManifestFile,
		},
		Settings: Settings{
			ArtifactPattern: manifest.DefaultPattern,
			HTTPTimeout:     DefaultHTTPTimeout,
			MaxConcurrent:   DefaultMaxConcurrent,
			LogLevel:        "info",
		},
	}
}

// GetDefaultConfigPath returns the default config file location.
func GetDefaultConfigPath() string {
	return DefaultConfigFileName
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults; environment overrides apply in both cases.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	return data, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Maven.ReleaseURL == "" {
		c.Maven.ReleaseURL = def.Maven.ReleaseURL
	}
	if c.Maven.SnapshotURL == "" {
		c.Maven.SnapshotURL = def.Maven.SnapshotURL
	}
	if c.Paths.ArtifactDir == "" {
		c.Paths.ArtifactDir = def.Paths.ArtifactDir
	}
	if c.Paths.DependencyFile == "" {
		c.Paths.DependencyFile = def.Paths.DependencyFile
	}
	if c.Paths.ManifestFile == "" {
		c.Paths.ManifestFile = def.Paths.ManifestFile
	}
	if c.Settings.ArtifactPattern == "" {
		c.Settings.ArtifactPattern = def.Settings.ArtifactPattern
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = def.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = def.Settings.MaxConcurrent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = def.Settings.LogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidate
	}
	for _, raw := range []string{c.Maven.ReleaseURL, c.Maven.SnapshotURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigValidate, "bad repository URL: %q", raw)
		}
	}
	if c.Settings.MaxConcurrent < 0 {
		return errors.Wrapf(errors.ErrConfigValidate, "max_concurrent_downloads cannot be negative")
	}
	if c.Settings.HTTPTimeout < 0 {
		return errors.Wrapf(errors.ErrConfigValidate, "http_timeout cannot be negative")
	}
	if _, err := filepath.Match(c.Settings.ArtifactPattern, "probe.jar"); err != nil {
		return errors.Wrapf(errors.ErrConfigValidate, "bad artifact_pattern %q", c.Settings.ArtifactPattern)
	}
	return nil
}

// Authenticator builds the request authenticator from the configured
// credentials. It returns nil for anonymous access.
func (c *Config) Authenticator() (auth.Authenticator, error) {
	switch auth.Type(c.Maven.Auth.Type) {
	case "":
		return nil, nil
	case auth.BasicAuthType:
		return auth.BasicAuth{Username: c.Maven.Auth.Username, Password: c.Maven.Auth.Password}, nil
	case auth.BearerAuthType:
		return auth.BearerAuth{Token: c.Maven.Auth.Token}, nil
	case auth.HeaderAuthType:
		return auth.HeaderAuth{Headers: c.Maven.Auth.Headers}, nil
	default:
		return nil, errors.Wrapf(errors.ErrConfigValidate, "unknown auth type %q", c.Maven.Auth.Type)
	}
}

// TargetPlatform returns the platform used for classifier filtering:
// the configured override, or the detected platform.
func (c *Config) TargetPlatform() platform.Platform {
	p := c.Settings.Platform
	if p.OS == "" || p.Arch == "" {
		return platform.CurrentPlatform()
	}
	return platform.Platform{
		OS:   platform.NormalizeOS(p.OS),
		Arch: platform.NormalizeArch(p.Arch),
	}
}
