package config

import (
	"os"
	"strings"
)

// Environment variables recognized as overrides. They mirror the
// project's historical environment knobs so CI pipelines keep working
// without a config file.
const (
	EnvReleaseURL       = "FLETCH_MAVEN_URL"
	EnvSnapshotURL      = "FLETCH_MAVEN_SNAPSHOT_URL"
	EnvArtifactDir      = "FLETCH_ARTIFACT_DIR"
	EnvMavenUsername    = "FLETCH_MAVEN_USERNAME"
	EnvMavenPassword    = "FLETCH_MAVEN_PASSWORD"
	EnvMavenToken       = "FLETCH_MAVEN_TOKEN"
	EnvRequireChecksums = "FLETCH_REQUIRE_CHECKSUMS"
	EnvFetchAllNative   = "FLETCH_FETCH_ALL_NATIVE"
	EnvLogLevel         = "FLETCH_LOG_LEVEL"
)

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvReleaseURL); v != "" {
		c.Maven.ReleaseURL = v
	}
	if v := os.Getenv(EnvSnapshotURL); v != "" {
		c.Maven.SnapshotURL = v
	}
	if v := os.Getenv(EnvMavenUsername); v != "" {
		c.Maven.Auth.Type = "basic"
		c.Maven.Auth.Username = v
	}
	if v := os.Getenv(EnvMavenPassword); v != "" {
		c.Maven.Auth.Password = v
	}
	if v := os.Getenv(EnvMavenToken); v != "" {
		c.Maven.Auth.Type = "bearer"
		c.Maven.Auth.Token = v
	}
	if v := os.Getenv(EnvArtifactDir); v != "" {
		c.Paths.ArtifactDir = os.ExpandEnv(v)
	}
	if v := os.Getenv(EnvRequireChecksums); v != "" {
		c.Settings.RequireChecksums = envBool(v)
	}
	if v := os.Getenv(EnvFetchAllNative); v != "" {
		c.Settings.FetchAllNative = envBool(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Settings.LogLevel = v
	}
}

func envBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
