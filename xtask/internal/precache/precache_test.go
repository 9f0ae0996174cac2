package precache

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity.dev/tools/internal/project"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func names(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var res []string
	for _, e := range entries {
		res = append(res, e.Name())
	}
	sort.Strings(res)
	return res
}

const hash = "0123456789abcdef"

func TestRun(t *testing.T) {
	root := t.TempDir()
	cfg := project.DefaultConfig().PreCache
	target := filepath.Join(root, cfg.TargetDir)

	touch(t, filepath.Join(target, "deps", "libclarity_lsp-"+hash+".rlib"))
	touch(t, filepath.Join(target, "deps", "clarity_lsp-"+hash+".d"))
	touch(t, filepath.Join(target, "deps", "clarity_lsp-"+hash))
	touch(t, filepath.Join(target, "deps", "libclarity-"+hash+".rlib"))
	touch(t, filepath.Join(target, "deps", "libserde-"+hash+".rlib"))
	touch(t, filepath.Join(target, "deps", "libclarity_repl-"+hash+".rlib"))
	touch(t, filepath.Join(target, ".fingerprint", "clarity-lsp-"+hash, "lib"))
	touch(t, filepath.Join(target, ".fingerprint", "clarity-repl-"+hash, "lib"))
	touch(t, filepath.Join(target, ".fingerprint", "serde-"+hash, "lib"))
	touch(t, filepath.Join(target, "build", "clarity-"+hash, "output"))
	touch(t, filepath.Join(target, "build", "clarity-repl-"+hash, "output"))
	touch(t, filepath.Join(target, "build", "libc-"+hash, "output"))
	touch(t, filepath.Join(target, "incremental", "clarity-1", "x"))

	require.NoError(t, Run(root, cfg))

	assert.Equal(t,
		[]string{"libclarity_repl-" + hash + ".rlib", "libserde-" + hash + ".rlib"},
		names(t, filepath.Join(target, "deps")))
	assert.Equal(t,
		[]string{"clarity-repl-" + hash, "serde-" + hash},
		names(t, filepath.Join(target, ".fingerprint")))
	assert.Equal(t,
		[]string{"clarity-repl-" + hash, "libc-" + hash},
		names(t, filepath.Join(target, "build")))
	assert.NoDirExists(t, filepath.Join(target, "incremental"))
}

func TestRunNoTargetDir(t *testing.T) {
	assert.NoError(t, Run(t.TempDir(), project.DefaultConfig().PreCache))
}

func TestRunTargetDirNotADirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stat through a file reports not-exist on windows")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "target"))
	cfg := project.DefaultConfig().PreCache

	assert.Error(t, Run(root, cfg))
}

func TestRunPartialTargetDir(t *testing.T) {
	root := t.TempDir()
	cfg := project.DefaultConfig().PreCache
	target := filepath.Join(root, cfg.TargetDir)
	touch(t, filepath.Join(target, "deps", "clarity-"+hash+".d"))

	require.NoError(t, Run(root, cfg))
	assert.Empty(t, names(t, filepath.Join(target, "deps")))
}

var artifactTests = []struct {
	name string
	want bool
}{
	{name: "clarity-lsp-" + hash, want: true},
	{name: "clarity_lsp-" + hash + ".d", want: true},
	{name: "libclarity_lsp-" + hash + ".rmeta", want: true},
	{name: "clarity-repl-" + hash, want: false},
	{name: "clarity-lsp-" + hash[:8], want: false},
	{name: "clarity-lsp-0123456789ABCDEF", want: false},
	{name: "libclarity-lspx-" + hash, want: false},
	{name: "clarity-lsp", want: false},
}

func TestWorkspaceArtifact(t *testing.T) {
	re := workspaceArtifact([]string{"clarity-lsp"})
	for i, test := range artifactTests {
		assert.Equal(t, test.want, re.MatchString(test.name), "test #%d: %s", i, test.name)
	}
}

func TestWorkspaceArtifactNoPackages(t *testing.T) {
	assert.False(t, workspaceArtifact(nil).MatchString("clarity-"+hash))
}
