package manifest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/fsutil"
	"github.com/RomualdRousseau/fletch/pkg/util"
)

// Generator builds a checksum manifest from a directory of artifact
// files. Enumeration is non-recursive and limited to regular files
// matching Pattern; entries are sorted by file name so the output is
// stable across platforms and filesystems.
//
// The manifest is written to a temporary file next to OutputPath and
// renamed into place only after every artifact hashed cleanly, so a
// failed run never clobbers a previous manifest.
type Generator struct {
	// Dir is the directory containing the artifact files.
	Dir string
	// OutputPath is the full path of the manifest file to write.
	OutputPath string
	// Pattern is the glob matched against artifact file names.
	// Defaults to DefaultPattern when empty.
	Pattern string
}

// NewGenerator creates a new Generator with default values.
func NewGenerator(dir, outputPath string) *Generator {
	return &Generator{
		Dir:        dir,
		OutputPath: outputPath,
		Pattern:    DefaultPattern,
	}
}

// Validate checks if the generator is properly configured.
func (g *Generator) Validate() error {
	if g.OutputPath == "" {
		return errors.Wrapf(errors.ErrInvalidPath, "output path is required")
	}
	return validateDir(g.Dir)
}

func validateDir(dir string) error {
	if dir == "" {
		return errors.Wrapf(errors.ErrInvalidPath, "artifact directory is required")
	}
	fi, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrInvalidPath, "artifact directory does not exist: %s", dir)
	} else if err != nil {
		return errors.Wrapf(err, "failed to stat artifact directory %s", dir)
	}
	if !fi.IsDir() {
		return errors.Wrapf(errors.ErrInvalidPath, "artifact path is not a directory: %s", dir)
	}
	return nil
}

// Generate scans Dir, hashes every matching artifact and writes the
// manifest to OutputPath. It returns the manifest that was written. A
// directory with zero matching artifacts produces an empty manifest
// file, not an error.
func (g *Generator) Generate(ctx context.Context) (*Manifest, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	names, err := listArtifacts(g.Dir, g.Pattern)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		checksum, err := sha256File(filepath.Join(g.Dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to hash artifact %s", name)
		}
		entries = append(entries, Entry{Checksum: checksum, Name: name})
	}

	m := New(entries)
	if err := g.write(m); err != nil {
		return nil, err
	}
	return m, nil
}

// listArtifacts returns the matching artifact file names in sorted
// order. os.ReadDir already sorts entries by name.
func listArtifacts(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact directory %s", dir)
	}

	var names []string
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		ok, err := filepath.Match(pattern, de.Name())
		if err != nil {
			return nil, errors.Wrapf(errors.ErrValidation, "bad artifact pattern %q: %v", pattern, err)
		}
		if ok {
			names = append(names, de.Name())
		}
	}
	return names, nil
}

// write publishes the manifest atomically: temp file, sync, rename.
func (g *Generator) write(m *Manifest) error {
	outputDir := filepath.Dir(g.OutputPath)
	if err := util.EnsureDir(outputDir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(outputDir, ".manifest-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary manifest")
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := m.WriteTo(tmp); err != nil {
		cleanup()
		return errors.Wrap(err, "failed to write manifest")
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrap(err, "failed to sync manifest")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "failed to close manifest")
	}
	if err := os.Chmod(tmpPath, fsutil.FileModeDefault); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "failed to set manifest permissions")
	}
	if err := fsutil.Move(tmpPath, g.OutputPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "failed to publish manifest")
	}
	return nil
}
