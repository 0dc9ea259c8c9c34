//go:generate mockgen -destination=./mocks/orchestrator.go -package mocks . Downloader,HookRunner
package orchestrator

import (
	"context"

	"github.com/RomualdRousseau/fletch/pkg/download"
	"github.com/RomualdRousseau/fletch/pkg/hook"
)

// Downloader is the narrow download interface the orchestrator needs.
type Downloader interface {
	FetchAll(ctx context.Context, items []download.Item, opts download.Options) (map[string]string, error)
}

// HookRunner executes user hook scripts around pipeline steps.
type HookRunner interface {
	Execute(hookType hook.HookType, ctx hook.HookContext) error
}
