// Package maven models the pinned dependency coordinates that fletch
// downloads into the artifact directory. A dependency file lists one
// coordinate per line, either "group:name:ext:version" or, for native
// artifacts, "group:name:ext:classifier:version". Blank lines and lines
// starting with '#' are ignored.
package maven

import (
	"bufio"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/RomualdRousseau/fletch/pkg/errors"
	goversion "github.com/hashicorp/go-version"
)

const snapshotSuffix = "-SNAPSHOT"

// Dependency is a single pinned Maven coordinate.
type Dependency struct {
	Group      string
	Name       string
	Extension  string
	Classifier string
	Version    string
}

// Parse parses a single coordinate line.
func Parse(line string) (Dependency, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")

	var dep Dependency
	switch len(parts) {
	case 4:
		dep = Dependency{Group: parts[0], Name: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		dep = Dependency{Group: parts[0], Name: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Dependency{}, errors.Wrapf(errors.ErrInvalidCoordinate,
			"expected 4 or 5 colon-separated fields, got %d: %s", len(parts), line)
	}

	for _, field := range []string{dep.Group, dep.Name, dep.Extension, dep.Version} {
		if field == "" {
			return Dependency{}, errors.Wrapf(errors.ErrInvalidCoordinate, "empty field in coordinate: %s", line)
		}
	}
	if _, err := dep.SemVer(); err != nil {
		return Dependency{}, errors.Wrapf(errors.ErrInvalidCoordinate, "bad version %q: %v", dep.Version, err)
	}
	return dep, nil
}

// ParseList reads coordinates from r, one per line, skipping blank lines
// and '#' comments.
func ParseList(r io.Reader) ([]Dependency, error) {
	var deps []Dependency
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dep, err := Parse(line)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read dependency list")
	}
	return deps, nil
}

// LoadFile reads a dependency file from disk.
func LoadFile(path string) ([]Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dependency file %s", path)
	}
	defer f.Close()
	return ParseList(f)
}

// SemVer returns the parsed version for comparison purposes. The
// "-SNAPSHOT" suffix is treated as a prerelease tag.
func (d Dependency) SemVer() (*goversion.Version, error) {
	return goversion.NewVersion(d.Version)
}

// IsSnapshot reports whether the dependency pins a snapshot version.
func (d Dependency) IsSnapshot() bool {
	return strings.HasSuffix(d.Version, snapshotSuffix)
}

// IsNative reports whether the dependency carries a native classifier.
func (d Dependency) IsNative() bool {
	return d.Classifier != ""
}

// RemoteFileName returns the file name of the artifact as published in
// the remote repository. Snapshot classifier artifacts drop the
// "-SNAPSHOT" suffix in the published name.
func (d Dependency) RemoteFileName() string {
	if d.Classifier == "" {
		return d.Name + "-" + d.Version + "." + d.Extension
	}
	if d.IsSnapshot() {
		base := strings.TrimSuffix(d.Version, snapshotSuffix)
		return d.Name + "-" + base + "-" + d.Classifier + "." + d.Extension
	}
	return d.Name + "-" + d.Version + "-" + d.Classifier + "." + d.Extension
}

// FileName returns the on-disk file name used in the artifact directory.
// Snapshot classifier artifacts are stored under their plain
// name-version file name so the manifest stays classifier-agnostic.
func (d Dependency) FileName() string {
	if d.Classifier != "" && d.IsSnapshot() {
		return d.Name + "-" + d.Version + "." + d.Extension
	}
	return d.RemoteFileName()
}

// URL builds the download URL for the dependency. Snapshot versions are
// fetched from snapshotBase, everything else from releaseBase.
func (d Dependency) URL(releaseBase, snapshotBase string) (*url.URL, error) {
	base := releaseBase
	if d.IsSnapshot() {
		base = snapshotBase
	}
	raw := strings.Join([]string{
		strings.TrimSuffix(base, "/"),
		strings.ReplaceAll(d.Group, ".", "/"),
		d.Name,
		d.Version,
		d.RemoteFileName(),
	}, "/")

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build URL for %s", d)
	}
	return u, nil
}

// String returns the coordinate in its dependency-file form.
func (d Dependency) String() string {
	if d.Classifier != "" {
		return strings.Join([]string{d.Group, d.Name, d.Extension, d.Classifier, d.Version}, ":")
	}
	return strings.Join([]string{d.Group, d.Name, d.Extension, d.Version}, ":")
}
