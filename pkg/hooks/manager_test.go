package hooks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/hooks"
)

func TestAddAndExecuteHook(t *testing.T) {
	manager := hooks.NewManager()
	ctx := hooks.HookContext{
		AppName:        "MyApp",
		CurrentVersion: "1.0.0",
		NewVersion:     "1.1.0",
		FilePath:       "/tmp/MyApp.AppImage.current",
	}

	err := manager.AddHook(hooks.Hook{
		Type:    hooks.PreUpdate,
		Content: `// no-op script`,
	})
	require.NoError(t, err)

	require.NoError(t, manager.Execute(hooks.PreUpdate, ctx))
}

func TestExecuteExposesUpdateContext(t *testing.T) {
	manager := hooks.NewManager()
	require.NoError(t, manager.AddHook(hooks.Hook{
		Type: hooks.PostUpdate,
		Content: `
err := ""
if appName != "MyApp" { err = "wrong appName" }
if newVersion != "2.0.0" { err = "wrong newVersion" }
if extra != "custom" { err = "wrong custom var" }
`,
	}))

	err := manager.Execute(hooks.PostUpdate, hooks.HookContext{
		AppName:    "MyApp",
		NewVersion: "2.0.0",
		Vars:       map[string]interface{}{"extra": "custom"},
	})
	require.NoError(t, err)
}

func TestExecuteScriptError(t *testing.T) {
	manager := hooks.NewManager()
	require.NoError(t, manager.AddHook(hooks.Hook{
		Type:    hooks.PreUpdate,
		Content: `err := "refusing to update"`,
	}))

	err := manager.Execute(hooks.PreUpdate, hooks.HookContext{AppName: "MyApp"})
	require.ErrorIs(t, err, errors.ErrHookScript)
	assert.Contains(t, err.Error(), "refusing to update")
}

func TestExecuteCompileFailure(t *testing.T) {
	manager := hooks.NewManager()
	require.NoError(t, manager.AddHook(hooks.Hook{
		Type:    hooks.PreUpdate,
		Content: `if {`,
	}))

	err := manager.Execute(hooks.PreUpdate, hooks.HookContext{AppName: "MyApp"})
	require.ErrorIs(t, err, errors.ErrHookExecution)
}

func TestExecuteWithoutHookIsNoop(t *testing.T) {
	manager := hooks.NewManager()
	assert.False(t, manager.HasHook(hooks.PreUpdate))
	require.NoError(t, manager.Execute(hooks.PreUpdate, hooks.HookContext{}))
}

func TestLoadFromConfig(t *testing.T) {
	dir := t.TempDir()
	prePath := filepath.Join(dir, "pre.tengo")
	require.NoError(t, os.WriteFile(prePath, []byte(`// pre-update`), 0o644))

	manager := hooks.NewManager()
	require.NoError(t, manager.LoadFromConfig(prePath, ""))
	assert.True(t, manager.HasHook(hooks.PreUpdate))
	assert.False(t, manager.HasHook(hooks.PostUpdate))

	err := manager.LoadFromConfig(filepath.Join(dir, "missing.tengo"), "")
	require.ErrorIs(t, err, errors.ErrHookLoad)
}
