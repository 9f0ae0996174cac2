// Package shell runs external tools on behalf of xtask operations.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner runs a command in dir. An empty dir means the working directory.
type Runner interface {
	Run(dir, name string, args ...string) error
	Output(dir, name string, args ...string) (string, error)
	LookPath(name string) (string, error)
}

// Exec runs commands with os/exec. The combined output of a failed Run is
// copied to Stderr. Output returns stdout only; stderr of a failed command
// ends up in the error.
type Exec struct {
	Stderr io.Writer
}

func New() *Exec {
	return &Exec{Stderr: os.Stderr}
}

func (e *Exec) Run(dir, name string, args ...string) error {
	cmd := e.command(dir, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		e.Stderr.Write(out)
		return fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return nil
}

func (e *Exec) Output(dir, name string, args ...string) (string, error) {
	cmd := e.command(dir, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run %s:\n%s", commandLine(name, args), exitErr.Stderr)
		}
		return "", fmt.Errorf("failed to run %s: %w", commandLine(name, args), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *Exec) command(dir, name string, args ...string) *exec.Cmd {
	slog.Debug("running command", "cmd", commandLine(name, args), "dir", dir)
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
