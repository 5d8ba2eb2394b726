package hooks

import (
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
)

// DefaultManager executes hook scripts with the Tengo interpreter.
type DefaultManager struct {
	mu      sync.RWMutex
	scripts map[HookType]string
}

// NewManager creates an empty hook manager.
func NewManager() *DefaultManager {
	return &DefaultManager{scripts: make(map[HookType]string)}
}

// AddHook registers or replaces the script for a hook type.
func (m *DefaultManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return errors.Wrap(errors.ErrHookLoad, "hook type is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[hook.Type] = hook.Content
	return nil
}

// LoadFromConfig reads the configured script files. Empty paths are skipped.
func (m *DefaultManager) LoadFromConfig(preUpdatePath, postUpdatePath string) error {
	for hookType, path := range map[HookType]string{
		PreUpdate:  preUpdatePath,
		PostUpdate: postUpdatePath,
	} {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(errors.ErrHookLoad, "%s script %s: %v", hookType, path, err)
		}
		if err := m.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return err
		}
	}
	return nil
}

// HasHook reports whether a script is registered for hookType.
func (m *DefaultManager) HasHook(hookType HookType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.scripts[hookType]
	return ok
}

// Execute runs the registered script with the update context bound as
// script variables. A script signals failure by setting an "err" variable.
func (m *DefaultManager) Execute(hookType HookType, ctx HookContext) error {
	m.mu.RLock()
	script, ok := m.scripts[hookType]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	instance := tengo.NewScript([]byte(script))
	instance.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times"))

	_ = instance.Add("appName", ctx.AppName)
	_ = instance.Add("currentVersion", ctx.CurrentVersion)
	_ = instance.Add("newVersion", ctx.NewVersion)
	_ = instance.Add("filePath", ctx.FilePath)
	for k, v := range ctx.Vars {
		_ = instance.Add(k, v)
	}

	compiled, err := instance.Run()
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: %v", hookType, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return errors.Wrap(errors.ErrHookScript, v.Error())
		case string:
			if v != "" {
				return errors.Wrap(errors.ErrHookScript, v)
			}
		}
	}
	return nil
}

var _ Manager = (*DefaultManager)(nil)
