// Package util provides utility functions for common operations.
package util

import (
	"os"
	"path/filepath"

	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/fsutil"
)

// EnsureDir creates a directory if it doesn't already exist.
// It also creates any necessary parent directories.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(errors.ErrInvalidPath, "failed to create directory %s: %v", path, err)
	}
	return nil
}

// EnsureFileDir ensures that the directory containing the specified file exists.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}
