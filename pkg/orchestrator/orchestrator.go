// Package orchestrator drives the dependency pipeline: reading the
// pinned coordinate list, filtering native artifacts for the target
// platform, attaching expected checksums from the manifest and handing
// the batch to the download manager. It also wraps manifest generation
// and verification with the user's hook scripts.
package orchestrator

import (
	"context"
	goerrors "errors"
	"path/filepath"

	"github.com/RomualdRousseau/fletch/internal/logger"
	"github.com/RomualdRousseau/fletch/pkg/config"
	"github.com/RomualdRousseau/fletch/pkg/download"
	"github.com/RomualdRousseau/fletch/pkg/errors"
	"github.com/RomualdRousseau/fletch/pkg/hook"
	"github.com/RomualdRousseau/fletch/pkg/manifest"
	"github.com/RomualdRousseau/fletch/pkg/maven"
)

// Orchestrator coordinates the dependency pipeline steps.
type Orchestrator struct {
	cfg        *config.Config
	downloader Downloader
	hooks      HookRunner
}

// New creates an orchestrator for the given configuration.
func New(cfg *config.Config, downloader Downloader, hooks HookRunner) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		downloader: downloader,
		hooks:      hooks,
	}
}

// FetchDependencies downloads every pinned dependency applicable to the
// target platform into the artifact directory. It returns the number of
// artifacts fetched (or reused from a previous run).
func (o *Orchestrator) FetchDependencies(ctx context.Context) (int, error) {
	deps, err := maven.LoadFile(o.cfg.Paths.DependencyFile)
	if err != nil {
		return 0, err
	}

	checksums, err := o.loadChecksums()
	if err != nil {
		return 0, err
	}

	items, err := o.buildItems(deps, checksums)
	if err != nil {
		return 0, err
	}

	absDir, err := filepath.Abs(o.cfg.Paths.ArtifactDir)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidPath, "bad artifact directory %s: %v", o.cfg.Paths.ArtifactDir, err)
	}

	hookCtx := o.hookContext(len(items))
	if err := o.hooks.Execute(hook.PreFetch, hookCtx); err != nil {
		return 0, err
	}

	if _, err := o.downloader.FetchAll(ctx, items, download.Options{
		Dir:         absDir,
		Concurrency: o.cfg.Settings.MaxConcurrent,
	}); err != nil {
		return 0, err
	}

	if err := o.hooks.Execute(hook.PostFetch, hookCtx); err != nil {
		return 0, err
	}
	return len(items), nil
}

// GenerateManifest regenerates the checksum manifest over the artifact
// directory.
func (o *Orchestrator) GenerateManifest(ctx context.Context) (*manifest.Manifest, error) {
	if err := o.hooks.Execute(hook.PreGenerate, o.hookContext(0)); err != nil {
		return nil, err
	}

	gen := manifest.NewGenerator(o.cfg.Paths.ArtifactDir, o.cfg.Paths.ManifestFile)
	gen.Pattern = o.cfg.Settings.ArtifactPattern

	m, err := gen.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := o.hooks.Execute(hook.PostGenerate, o.hookContext(m.Len())); err != nil {
		return nil, err
	}
	return m, nil
}

// VerifyArtifacts checks the artifact directory against the manifest.
func (o *Orchestrator) VerifyArtifacts(ctx context.Context) ([]manifest.Result, error) {
	m, err := manifest.Load(o.cfg.Paths.ManifestFile)
	if err != nil {
		return nil, err
	}
	return manifest.VerifyDir(ctx, m, o.cfg.Paths.ArtifactDir, o.cfg.Settings.ArtifactPattern)
}

// loadChecksums reads the manifest for expected checksums. A missing
// manifest is fatal only when checksums are required; otherwise the
// downloads proceed unverified, with a warning.
func (o *Orchestrator) loadChecksums() (*manifest.Manifest, error) {
	m, err := manifest.Load(o.cfg.Paths.ManifestFile)
	if err != nil {
		if goerrors.Is(err, errors.ErrManifestNotFound) {
			if o.cfg.Settings.RequireChecksums {
				return nil, errors.Wrapf(errors.ErrChecksumMissing, "manifest %s", o.cfg.Paths.ManifestFile)
			}
			logger.Warnf("no manifest found at %s; downloads will not be verified", o.cfg.Paths.ManifestFile)
			return manifest.New(nil), nil
		}
		return nil, err
	}
	logger.Debugf("loaded %d checksums from %s", m.Len(), o.cfg.Paths.ManifestFile)
	return m, nil
}

func (o *Orchestrator) buildItems(deps []maven.Dependency, checksums *manifest.Manifest) ([]download.Item, error) {
	target := o.cfg.TargetPlatform()

	items := make([]download.Item, 0, len(deps))
	for _, dep := range deps {
		if dep.IsNative() && !o.cfg.Settings.FetchAllNative && !target.ClassifierMatches(dep.Classifier) {
			logger.Infof("skipping %s: classifier %s is not for %s", dep.Name, dep.Classifier, target)
			continue
		}

		checksum, ok := checksums.Lookup(dep.FileName())
		if !ok {
			if o.cfg.Settings.RequireChecksums {
				return nil, errors.Wrapf(errors.ErrChecksumMissing, "%s", dep.FileName())
			}
			logger.Debugf("no checksum recorded for %s", dep.FileName())
		}

		u, err := dep.URL(o.cfg.Maven.ReleaseURL, o.cfg.Maven.SnapshotURL)
		if err != nil {
			return nil, err
		}

		items = append(items, download.Item{
			ID:       dep.String(),
			URL:      u,
			Filename: dep.FileName(),
			Checksum: checksum,
		})
	}
	return items, nil
}

func (o *Orchestrator) hookContext(count int) hook.HookContext {
	return hook.HookContext{
		ArtifactDir:   o.cfg.Paths.ArtifactDir,
		ManifestPath:  o.cfg.Paths.ManifestFile,
		ArtifactCount: count,
	}
}
