// Package artifact reads metadata out of bundled jar files. A jar is a
// zip archive; the embedded META-INF/MANIFEST.MF main attributes carry
// the implementation title and version when the publisher filled them
// in.
package artifact

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/mholt/archives"
)

const jarManifestPath = "META-INF/MANIFEST.MF"

// Info describes a single artifact file.
type Info struct {
	// File is the artifact's base file name.
	File string
	// Title and Version come from the jar manifest's Implementation-Title
	// and Implementation-Version attributes; empty when absent.
	Title   string
	Version string
	// Size is the artifact file size in bytes.
	Size int64
	// Checksum is the hex-encoded SHA-256 of the file content.
	Checksum string
}

// Inspect reads size, checksum and embedded metadata for an artifact
// file. A jar without a readable META-INF manifest is still inspected;
// only its Title and Version stay empty.
func Inspect(ctx context.Context, path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrArtifactNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "failed to stat artifact %s", path)
	}

	checksum, err := sha256File(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to hash artifact %s", path)
	}

	info := &Info{
		File:     stat.Name(),
		Size:     stat.Size(),
		Checksum: checksum,
	}

	title, version, err := readJarAttributes(ctx, path)
	if err == nil {
		info.Title = title
		info.Version = version
	}
	return info, nil
}

func readJarAttributes(ctx context.Context, path string) (title, version string, err error) {
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return "", "", err
	}
	// Close the underlying archive filesystem when done (important on Windows)
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	mf, err := fsys.Open(jarManifestPath)
	if err != nil {
		return "", "", err
	}
	defer mf.Close()

	attrs, err := parseJarManifest(mf)
	if err != nil {
		return "", "", err
	}
	return attrs["Implementation-Title"], attrs["Implementation-Version"], nil
}

// parseJarManifest reads the main attribute section of a jar manifest.
// Lines starting with a space continue the previous attribute value;
// the main section ends at the first blank line.
func parseJarManifest(r io.Reader) (map[string]string, error) {
	attrs := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lastKey := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if lastKey != "" {
				attrs[lastKey] += strings.TrimPrefix(line, " ")
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		lastKey = strings.TrimSpace(key)
		attrs[lastKey] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
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
