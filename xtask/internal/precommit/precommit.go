// Package precommit installs xtask as the git pre-commit hook and runs the
// hook when xtask is invoked under that name.
package precommit

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"clarity.dev/tools/internal/git"
	"clarity.dev/tools/internal/project"
	"clarity.dev/tools/internal/shell"
)

// IsHookInvocation reports whether argv0 names the pre-commit hook.
func IsHookInvocation(argv0 string) bool {
	return strings.Contains(filepath.Base(argv0), "pre-commit")
}

type Hook struct {
	root string
	cfg  project.PreCommitConfig
	sh   shell.Runner

	// Executable returns the binary that InstallHook copies.
	Executable func() (string, error)
}

func New(root string, cfg project.PreCommitConfig, sh shell.Runner) *Hook {
	return &Hook{root: root, cfg: cfg, sh: sh, Executable: os.Executable}
}

func (h *Hook) Path() string {
	name := "pre-commit"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(h.root, ".git", "hooks", name)
}

// Install copies the running executable to .git/hooks/pre-commit.
func (h *Hook) Install() error {
	src, err := h.Executable()
	if err != nil {
		return err
	}
	dst := h.Path()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := copyFile(src, dst, 0o755); err != nil {
		return fmt.Errorf("failed to install pre-commit hook: %w", err)
	}
	slog.Info("pre-commit hook installed", "path", dst)
	return nil
}

// Run formats the tree and re-stages the files that were staged, so the
// commit picks up the formatting changes.
func (h *Hook) Run() error {
	if len(h.cfg.Format) == 0 {
		return fmt.Errorf("no format command configured")
	}
	if err := h.sh.Run(h.root, h.cfg.Format[0], h.cfg.Format[1:]...); err != nil {
		return err
	}
	g := git.New(h.sh)
	files, err := g.StagedFiles()
	if err != nil {
		return err
	}
	for i, f := range files {
		files[i] = filepath.Join(h.root, f)
	}
	return g.UpdateIndexAdd(files...)
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, perm)
}
