// Package manifest implements the checksum inventory covering the
// bundled artifact directory. A manifest is a line-oriented text file
// with one "<sha256-hex>:<filename>" entry per artifact. It is the
// integrity reference used when packaging and when re-downloading
// dependencies.
package manifest

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/RomualdRousseau/fletch/internal/logger"
	"github.com/RomualdRousseau/fletch/pkg/errors"
)

// DefaultPattern matches the artifact files tracked by a manifest.
const DefaultPattern = "*.jar"

var checksumRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Entry pairs an artifact file name with its content checksum.
type Entry struct {
	Checksum string
	Name     string
}

// Manifest is an ordered list of entries with name-based lookup.
type Manifest struct {
	Entries []Entry

	byName map[string]string
}

// New builds a Manifest from a list of entries.
func New(entries []Entry) *Manifest {
	m := &Manifest{Entries: entries, byName: make(map[string]string, len(entries))}
	for _, e := range entries {
		m.byName[e.Name] = e.Checksum
	}
	return m
}

// Parse reads manifest entries from r. Blank lines and '#' comments are
// skipped; malformed lines are logged and ignored, matching the lenient
// behavior expected by downstream consumers.
func Parse(r io.Reader) (*Manifest, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		checksum, name, ok := strings.Cut(line, ":")
		if !ok || name == "" || !checksumRe.MatchString(checksum) {
			logger.Warnf("ignoring malformed manifest line %d: %s", lineno, line)
			continue
		}
		entries = append(entries, Entry{Checksum: checksum, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	return New(entries), nil
}

// Load reads a manifest file from disk.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrManifestNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "failed to open manifest %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the recorded checksum for an artifact name.
func (m *Manifest) Lookup(name string) (string, bool) {
	checksum, ok := m.byName[name]
	return checksum, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// WriteTo writes the manifest in its on-disk format.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, e := range m.Entries {
		n, err := fmt.Fprintf(w, "%s:%s\n", e.Checksum, e.Name)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
