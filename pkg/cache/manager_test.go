package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/RomualdRousseau/fletch/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupArtifactDir(t *testing.T) (string, *manifest.Manifest) {
	t.Helper()
	dir := t.TempDir()

	tracked := []byte("tracked artifact")
	sum := sha256.Sum256(tracked)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.jar"), tracked, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.jar"), []byte("left behind"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an artifact"), 0o644))

	m := manifest.New([]manifest.Entry{
		{Checksum: hex.EncodeToString(sum[:]), Name: "tracked.jar"},
	})
	return dir, m
}

func TestClean_RemovesUntracked(t *testing.T) {
	dir, m := setupArtifactDir(t)

	result, err := NewManager(dir, "").Clean(m, CleanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"stale.jar"}, result.FilesRemoved)
	assert.Equal(t, int64(len("left behind")), result.BytesFreed)

	assert.FileExists(t, filepath.Join(dir, "tracked.jar"))
	assert.NoFileExists(t, filepath.Join(dir, "stale.jar"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"), "files outside the pattern are untouched")
}

func TestClean_All(t *testing.T) {
	dir, m := setupArtifactDir(t)

	result, err := NewManager(dir, "").Clean(m, CleanOptions{All: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"tracked.jar", "stale.jar"}, result.FilesRemoved)
	assert.NoFileExists(t, filepath.Join(dir, "tracked.jar"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestClean_DryRun(t *testing.T) {
	dir, m := setupArtifactDir(t)

	result, err := NewManager(dir, "").Clean(m, CleanOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"stale.jar"}, result.FilesRemoved)
	assert.FileExists(t, filepath.Join(dir, "stale.jar"), "dry run must not delete")
}

func TestClean_NilManifestTreatsAllAsUntracked(t *testing.T) {
	dir, _ := setupArtifactDir(t)

	result, err := NewManager(dir, "").Clean(nil, CleanOptions{DryRun: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tracked.jar", "stale.jar"}, result.FilesRemoved)
}

func TestClean_MissingDirectory(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "nope"), "").Clean(nil, CleanOptions{})
	require.Error(t, err)
}

func TestGetInfo(t *testing.T) {
	dir, m := setupArtifactDir(t)

	info, err := NewManager(dir, "").GetInfo(m)
	require.NoError(t, err)

	assert.Equal(t, dir, info.Directory)
	assert.Equal(t, 2, info.ArtifactCount)
	assert.Equal(t, 1, info.Tracked)
	assert.Equal(t, 1, info.Untracked)
	assert.Equal(t, int64(len("tracked artifact")+len("left behind")), info.TotalSize)
}
