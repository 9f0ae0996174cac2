package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity.dev/tools/internal/project"
	"clarity.dev/tools/xtask/internal/task"
)

func TestPreCacheEndToEnd(t *testing.T) {
	root := t.TempDir()
	t.Setenv(project.RootEnv, root)
	t.Setenv("XTASK_LOG_LEVEL", "error")
	require.NoError(t, os.WriteFile(filepath.Join(root, project.ConfigFile), []byte(`
[pre_cache]
target_dir = "build-cache"
packages = ["clarity"]
`), 0o644))

	stale := filepath.Join(root, "build-cache", "deps", "libclarity-0123456789abcdef.rlib")
	kept := filepath.Join(root, "build-cache", "deps", "libserde-0123456789abcdef.rlib")
	for _, f := range []string{stale, kept} {
		require.NoError(t, os.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, os.WriteFile(f, nil, 0o644))
	}

	var stderr bytes.Buffer
	require.NoError(t, task.Main([]string{"xtask", "pre-cache"}, newEntry(&stderr), &stderr))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, kept)
}

func TestInvalidConfig(t *testing.T) {
	root := t.TempDir()
	t.Setenv(project.RootEnv, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, project.ConfigFile), []byte("[log"), 0o644))

	var stderr bytes.Buffer
	err := task.Main([]string{"xtask", "pre-cache"}, newEntry(&stderr), &stderr)
	assert.ErrorContains(t, err, "failed to read xtask.toml")
}

func TestUsageEndToEnd(t *testing.T) {
	t.Setenv(project.RootEnv, t.TempDir())
	t.Setenv("XTASK_LOG_LEVEL", "")

	var stderr bytes.Buffer
	require.NoError(t, task.Main([]string{"xtask"}, newEntry(&stderr), &stderr))
	assert.Contains(t, stderr.String(), "SUBCOMMANDS:")
}
