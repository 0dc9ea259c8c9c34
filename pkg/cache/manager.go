// Package cache maintains the artifact directory, which fletch treats
// as a cache of fetched jars. Cleaning removes artifacts the manifest
// does not track, typically left behind by dependency upgrades.
package cache

import (
	"os"
	"path/filepath"

	"github.com/RomualdRousseau/fletch/internal/logger"
	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/manifest"
)

// DefaultManager implements the Manager interface over a directory of
// artifacts matched by a glob pattern.
type DefaultManager struct {
	directory string
	pattern   string
}

// NewManager creates a new cache manager for the given directory.
// An empty pattern matches jar artifacts.
func NewManager(directory, pattern string) *DefaultManager {
	if pattern == "" {
		pattern = manifest.DefaultPattern
	}
	return &DefaultManager{directory: directory, pattern: pattern}
}

// GetDirectory returns the managed artifact directory.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// Clean removes artifacts according to the specified options. Without
// All, only files absent from the manifest are removed.
func (cm *DefaultManager) Clean(m *manifest.Manifest, options CleanOptions) (*CleanResult, error) {
	result := &CleanResult{}

	err := cm.walkArtifacts(func(name string, size int64, tracked bool) error {
		if !options.All && tracked {
			return nil
		}

		path := filepath.Join(cm.directory, name)
		if !options.DryRun {
			if err := os.Remove(path); err != nil {
				return errors.Wrapf(err, "failed to remove %s", path)
			}
			logger.Debugf("removed %s", path)
		}
		result.FilesRemoved = append(result.FilesRemoved, name)
		result.BytesFreed += size
		return nil
	}, m)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetInfo summarizes the artifact directory against the manifest.
func (cm *DefaultManager) GetInfo(m *manifest.Manifest) (*Info, error) {
	info := &Info{Directory: cm.directory}

	err := cm.walkArtifacts(func(name string, size int64, tracked bool) error {
		info.ArtifactCount++
		info.TotalSize += size
		if tracked {
			info.Tracked++
		} else {
			info.Untracked++
		}
		return nil
	}, m)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (cm *DefaultManager) walkArtifacts(fn func(name string, size int64, tracked bool) error, m *manifest.Manifest) error {
	entries, err := os.ReadDir(cm.directory)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidPath, "cannot read %s: %v", cm.directory, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		match, err := filepath.Match(cm.pattern, entry.Name())
		if err != nil || !match {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, "cannot stat %s", entry.Name())
		}

		tracked := false
		if m != nil {
			_, tracked = m.Lookup(entry.Name())
		}
		if err := fn(entry.Name(), fi.Size(), tracked); err != nil {
			return err
		}
	}
	return nil
}
