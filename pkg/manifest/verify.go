package manifest

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/RomualdRousseau/fletch/pkg/errors"
)

// Status classifies the verification outcome for one artifact.
type Status string

const (
	// StatusOK means the artifact's checksum matches the manifest.
	StatusOK Status = "ok"
	// StatusMismatch means the artifact exists but its checksum differs.
	StatusMismatch Status = "mismatch"
	// StatusMissing means the manifest lists the artifact but the file is absent.
	StatusMissing Status = "missing"
	// StatusUntracked means the file exists but the manifest does not list it.
	StatusUntracked Status = "untracked"
)

// Result is the verification outcome for a single artifact.
type Result struct {
	Name     string
	Status   Status
	Expected string
	Actual   string
}

// VerifyDir checks the artifact directory against the manifest and
// returns one result per artifact, sorted by name. Untracked files are
// reported but are not failures; mismatched and missing artifacts are.
func VerifyDir(ctx context.Context, m *Manifest, dir, pattern string) ([]Result, error) {
	if err := validateDir(dir); err != nil {
		return nil, err
	}

	names, err := listArtifacts(dir, pattern)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(names))
	var results []Result
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		present[name] = true

		expected, tracked := m.Lookup(name)
		if !tracked {
			results = append(results, Result{Name: name, Status: StatusUntracked})
			continue
		}
		actual, err := sha256File(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to hash artifact %s", name)
		}
		status := StatusOK
		if actual != expected {
			status = StatusMismatch
		}
		results = append(results, Result{Name: name, Status: status, Expected: expected, Actual: actual})
	}

	for _, e := range m.Entries {
		if !present[e.Name] {
			results = append(results, Result{Name: e.Name, Status: StatusMissing, Expected: e.Checksum})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// HasFailures reports whether any result is a mismatch or a missing
// artifact.
func HasFailures(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusMismatch || r.Status == StatusMissing {
			return true
		}
	}
	return false
}
