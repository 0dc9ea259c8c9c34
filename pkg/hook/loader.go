package hook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/RomualdRousseau/fletch/pkg/errors"
)

const hookFileExtension = ".tengo"

// LoadFromDir loads hook scripts from a directory. Each hook lives in a
// file named after its type, e.g. "pre-fetch.tengo". A missing
// directory is not an error; a manager with no hooks is returned.
func LoadFromDir(manager Manager, dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(errors.ErrHookLoad, "failed to read hooks directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != hookFileExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), hookFileExtension))
		if !isKnownType(hookType) {
			continue // Skip unknown hook types
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return errors.Wrapf(errors.ErrHookLoad, "error reading hook file %s: %v", entry.Name(), err)
		}

		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}

func isKnownType(hookType HookType) bool {
	for _, known := range KnownHookTypes {
		if hookType == known {
			return true
		}
	}
	return false
}
