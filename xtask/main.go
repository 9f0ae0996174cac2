// Command xtask runs the clarity-lsp build tasks that cargo alone cannot
// express: installing the server and editor extension, packaging
// releases, and managing the pre-commit hook.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"clarity.dev/tools/internal/logging"
	"clarity.dev/tools/internal/project"
	"clarity.dev/tools/internal/shell"
	"clarity.dev/tools/xtask/internal/precommit"
	"clarity.dev/tools/xtask/internal/task"
)

func main() {
	// Use a minimal logger until xtask.toml has been read.
	slog.SetDefault(logging.New("info", "text", os.Stderr))

	if err := task.Main(os.Args, newEntry(os.Stderr), os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newEntry(stderr io.Writer) task.Entry {
	return task.Entry{
		FindRoot: project.FindRoot,
		Open: func(root string) (task.Operations, error) {
			cfg, err := load(root, stderr)
			if err != nil {
				return nil, err
			}
			return &operations{root: root, cfg: cfg, sh: shell.New()}, nil
		},
		RunHook: func() error {
			root, err := project.FindRoot()
			if err != nil {
				return err
			}
			cfg, err := load(root, stderr)
			if err != nil {
				return err
			}
			return precommit.New(root, cfg.PreCommit, shell.New()).Run()
		},
	}
}

func load(root string, stderr io.Writer) (project.Config, error) {
	cfg, err := project.LoadConfig(root)
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to read %s: %w", project.ConfigFile, err)
	}
	slog.SetDefault(logging.New(cfg.Log.Level, cfg.Log.Format, stderr))
	return cfg, nil
}
