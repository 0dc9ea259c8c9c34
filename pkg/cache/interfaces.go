package cache

import "github.com/RomualdRousseau/fletch/pkg/manifest"

// Manager defines the interface for artifact directory maintenance.
type Manager interface {
	Clean(m *manifest.Manifest, options CleanOptions) (*CleanResult, error)
	GetInfo(m *manifest.Manifest) (*Info, error)
	GetDirectory() string
}

// CleanOptions specifies what to remove from the artifact directory.
type CleanOptions struct {
	// All removes every matching artifact, tracked or not.
	All bool
	// DryRun reports what would be removed without deleting anything.
	DryRun bool
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	FilesRemoved []string
	BytesFreed   int64
}

// Info summarizes the artifact directory against the manifest.
type Info struct {
	Directory     string
	TotalSize     int64
	ArtifactCount int
	Tracked       int
	Untracked     int
}
