package hook

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	PreFetch     HookType = "pre-fetch"
	PostFetch    HookType = "post-fetch"
	PreGenerate  HookType = "pre-generate"
	PostGenerate HookType = "post-generate"
)

// KnownHookTypes lists all hook types in execution order.
var KnownHookTypes = []HookType{PreFetch, PostFetch, PreGenerate, PostGenerate}

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	ArtifactDir   string
	ManifestPath  string
	ArtifactCount int
	Vars          map[string]interface{}
}

// Manager defines the interface for managing hooks.
type Manager interface {
	// Execute runs the specified hook type with the given context
	Execute(hookType HookType, ctx HookContext) error

	// AddHook adds a new hook
	AddHook(hook Hook) error

	// RemoveHook removes a hook of the specified type
	RemoveHook(hookType HookType) error

	// HasHook checks if a hook of the specified type exists
	HasHook(hookType HookType) bool
}
