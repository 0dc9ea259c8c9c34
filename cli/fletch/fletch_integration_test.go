//go:build integration

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RomualdRousseau/fletch/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeArtifacts(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content of "+name), 0o644))
	}
}

func TestGenerateAndVerify_Success(t *testing.T) {
	tempDir := t.TempDir()
	jarDir := filepath.Join(tempDir, "jars")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	writeArtifacts(t, jarDir, "beta.jar", "alpha.jar")

	out, err := runCommand(t, "generate", jarDir, manifestPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 checksums")

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ":alpha.jar"), "lines must be sorted by filename")
	assert.True(t, strings.HasSuffix(lines[1], ":beta.jar"))

	out, err = runCommand(t, "verify", jarDir, manifestPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Verified 2 artifacts")
}

func TestVerify_DetectsTampering(t *testing.T) {
	tempDir := t.TempDir()
	jarDir := filepath.Join(tempDir, "jars")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	writeArtifacts(t, jarDir, "lib.jar")

	_, err := runCommand(t, "generate", jarDir, manifestPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(jarDir, "lib.jar"), []byte("tampered"), 0o644))

	out, err := runCommand(t, "verify", jarDir, manifestPath)
	require.Error(t, err)
	assert.Contains(t, out, "mismatch")
}

func TestGenerate_EmptyDirectory(t *testing.T) {
	tempDir := t.TempDir()
	jarDir := filepath.Join(tempDir, "jars")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	require.NoError(t, os.MkdirAll(jarDir, 0o755))

	out, err := runCommand(t, "generate", jarDir, manifestPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 checksums")

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestGenerate_PreservesManifestOnFailure(t *testing.T) {
	tempDir := t.TempDir()
	jarDir := filepath.Join(tempDir, "jars")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	writeArtifacts(t, jarDir, "lib.jar")

	_, err := runCommand(t, "generate", jarDir, manifestPath)
	require.NoError(t, err)
	before, err := os.ReadFile(manifestPath)
	require.NoError(t, err)

	_, err = runCommand(t, "generate", filepath.Join(tempDir, "does-not-exist"), manifestPath)
	require.Error(t, err)

	after, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed run must not clobber the previous manifest")
}

func TestFetch_FromLocalRepository(t *testing.T) {
	tempDir := t.TempDir()
	jarBody := testutil.JarBytes(t, map[string]string{
		"Implementation-Title":   "Apache POI",
		"Implementation-Version": "5.2.5",
	})
	checksum := testutil.Checksum(jarBody)

	server := testutil.NewRepositoryServer(t, map[string][]byte{
		"/org/apache/poi/poi/5.2.5/poi-5.2.5.jar": jarBody,
	})

	jarDir := filepath.Join(tempDir, "jars")
	depFile := filepath.Join(tempDir, "dependencies")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	configFile := filepath.Join(tempDir, "fletch.yaml")

	require.NoError(t, os.MkdirAll(jarDir, 0o755))
	require.NoError(t, os.WriteFile(depFile, []byte("org.apache.poi:poi:jar:5.2.5\n"), 0o644))
	require.NoError(t, os.WriteFile(manifestPath, []byte(checksum+":poi-5.2.5.jar\n"), 0o644))

	configYAML := fmt.Sprintf(`maven:
  release_url: %s
paths:
  artifact_dir: %s
  dependency_file: %s
  manifest_file: %s
`, server.URL, jarDir, depFile, manifestPath)
	require.NoError(t, os.WriteFile(configFile, []byte(configYAML), 0o644))

	out, err := runCommand(t, "fetch", "--require-checksums", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Fetched 1 artifacts")

	got, err := os.ReadFile(filepath.Join(jarDir, "poi-5.2.5.jar"))
	require.NoError(t, err)
	assert.Equal(t, jarBody, got)

	// A second run reuses the verified file.
	_, err = runCommand(t, "fetch", "--require-checksums", "--config", configFile)
	require.NoError(t, err)

	// The fetched jar shows up in the listing with its manifest metadata.
	out, err = runCommand(t, "list", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "poi-5.2.5.jar")
	assert.Contains(t, out, "Apache POI")
}

func TestFetch_ChecksumMismatchFails(t *testing.T) {
	tempDir := t.TempDir()

	server := testutil.NewRepositoryServer(t, map[string][]byte{
		"/org/apache/poi/poi/5.2.5/poi-5.2.5.jar": []byte("unexpected bytes"),
	})

	jarDir := filepath.Join(tempDir, "jars")
	depFile := filepath.Join(tempDir, "dependencies")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	configFile := filepath.Join(tempDir, "fletch.yaml")

	require.NoError(t, os.MkdirAll(jarDir, 0o755))
	require.NoError(t, os.WriteFile(depFile, []byte("org.apache.poi:poi:jar:5.2.5\n"), 0o644))
	require.NoError(t, os.WriteFile(manifestPath,
		[]byte(strings.Repeat("0", 64)+":poi-5.2.5.jar\n"), 0o644))

	configYAML := fmt.Sprintf(`maven:
  release_url: %s
paths:
  artifact_dir: %s
  dependency_file: %s
  manifest_file: %s
`, server.URL, jarDir, depFile, manifestPath)
	require.NoError(t, os.WriteFile(configFile, []byte(configYAML), 0o644))

	_, err := runCommand(t, "fetch", "--config", configFile)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(jarDir, "poi-5.2.5.jar"))
	assert.True(t, os.IsNotExist(statErr), "a mismatching download must not be kept")
}

func TestClean_RemovesStaleArtifacts(t *testing.T) {
	tempDir := t.TempDir()
	jarDir := filepath.Join(tempDir, "jars")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	configFile := filepath.Join(tempDir, "fletch.yaml")
	writeArtifacts(t, jarDir, "keep.jar")

	configYAML := fmt.Sprintf(`paths:
  artifact_dir: %s
  manifest_file: %s
`, jarDir, manifestPath)
	require.NoError(t, os.WriteFile(configFile, []byte(configYAML), 0o644))

	_, err := runCommand(t, "generate", "--config", configFile)
	require.NoError(t, err)

	// A jar that appears after generation is untracked.
	writeArtifacts(t, jarDir, "stale.jar")

	out, err := runCommand(t, "clean", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "stale.jar")

	assert.FileExists(t, filepath.Join(jarDir, "keep.jar"))
	assert.NoFileExists(t, filepath.Join(jarDir, "stale.jar"))
}

func TestGenerate_RunsHookScripts(t *testing.T) {
	tempDir := t.TempDir()
	jarDir := filepath.Join(tempDir, "jars")
	manifestPath := filepath.Join(tempDir, "dependencies.sha256")
	hooksDir := filepath.Join(tempDir, "hooks")
	configFile := filepath.Join(tempDir, "fletch.yaml")
	marker := filepath.Join(tempDir, "hook-ran")

	writeArtifacts(t, jarDir, "lib.jar")
	require.NoError(t, os.MkdirAll(hooksDir, 0o755))

	script := fmt.Sprintf(`os := import("os")
file := os.create(%q)
file.write_string("count=" + string(artifactCount))
file.close()
`, marker)
	require.NoError(t, os.WriteFile(filepath.Join(hooksDir, "post-generate.tengo"), []byte(script), 0o644))

	configYAML := fmt.Sprintf(`paths:
  artifact_dir: %s
  manifest_file: %s
  hooks_dir: %s
`, jarDir, manifestPath, hooksDir)
	require.NoError(t, os.WriteFile(configFile, []byte(configYAML), 0o644))

	_, err := runCommand(t, "generate", "--config", configFile)
	require.NoError(t, err)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "count=1", string(data))
}

func TestConfig_InitAndShow(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "fletch.yaml")

	_, err := runCommand(t, "config", "init", "--config", configFile)
	require.NoError(t, err)

	out, err := runCommand(t, "config", "show", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "release_url")
	assert.Contains(t, out, "repo1.maven.org")

	// init refuses to overwrite without --force
	_, err = runCommand(t, "config", "init", "--config", configFile)
	require.Error(t, err)
	_, err = runCommand(t, "config", "init", "--force", "--config", configFile)
	require.NoError(t, err)
}
