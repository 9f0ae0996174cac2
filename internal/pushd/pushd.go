// Package pushd scopes a change of the process working directory.
package pushd

import (
	"log/slog"
	"os"
)

type Dir struct {
	original string
	popped   bool
}

// Push changes the working directory to path. The returned Dir must be
// popped to go back to the previous directory.
func Push(path string) (*Dir, error) {
	original, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(path); err != nil {
		return nil, err
	}
	return &Dir{original: original}, nil
}

// Pop restores the directory that was current when Push was called. Only
// the first call has an effect. A failure is logged and otherwise ignored.
func (d *Dir) Pop() {
	if d == nil || d.popped {
		return
	}
	d.popped = true
	if err := os.Chdir(d.original); err != nil {
		slog.Warn("failed to restore working directory", "dir", d.original, "err", err)
	}
}
