package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRootFromMarkers(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "crates", "clarity", "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), nil, 0o644))

	got, err := findRootFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRootFromGitDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	sub := filepath.Join(root, "editors")
	require.NoError(t, os.Mkdir(sub, 0o755))

	got, err := findRootFrom(sub)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRootEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv(RootEnv, root)

	got, err := FindRoot()
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("XTASK_LOG_LEVEL", "")
	t.Setenv("XTASK_LOG_FORMAT", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	t.Setenv("XTASK_LOG_LEVEL", "")
	t.Setenv("XTASK_LOG_FORMAT", "")
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("\n  \n"), 0o644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("XTASK_LOG_LEVEL", "debug")
	t.Setenv("XTASK_LOG_FORMAT", "")
	root := t.TempDir()
	data := `
[server]
binary = "clarity-ls"

[pre_cache]
packages = ["clarity-core"]

[log]
format = "json"
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(data), 0o644))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "clarity-ls", cfg.Server.Binary)
	assert.Equal(t, "crates/clarity-lsp", cfg.Server.Package)
	assert.Equal(t, []string{"clarity-core"}, cfg.PreCache.Packages)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("[server\n"), 0o644))

	_, err := LoadConfig(root)
	assert.Error(t, err)
}
