// Package hooks runs user-supplied Tengo scripts around application updates.
package hooks

// HookType represents the point in the update flow a script runs at.
type HookType string

// Supported hook types.
const (
	PreUpdate  HookType = "pre-update"
	PostUpdate HookType = "post-update"
)

// Hook is a script bound to a hook type.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext carries the update details exposed to scripts.
type HookContext struct {
	AppName        string
	CurrentVersion string
	NewVersion     string
	FilePath       string
	Vars           map[string]interface{}
}

// Manager defines the hook management interface.
type Manager interface {
	// Execute runs the script registered for hookType, if any.
	Execute(hookType HookType, ctx HookContext) error

	// AddHook registers or replaces the script for a hook type.
	AddHook(hook Hook) error

	// LoadFromConfig loads the scripts referenced by an application's hook
	// configuration from disk.
	LoadFromConfig(preUpdatePath, postUpdatePath string) error

	// HasHook reports whether a script is registered for hookType.
	HasHook(hookType HookType) bool
}
