// Package git wraps the git command line used by release and the
// pre-commit hook.
package git

import (
	"strings"

	"clarity.dev/tools/internal/shell"
)

type Git struct {
	sh shell.Runner
}

func New(sh shell.Runner) *Git {
	return &Git{sh: sh}
}

func (g *Git) Switch(branch string) error {
	return g.call("switch", branch)
}

func (g *Git) FetchTags(remote string) error {
	return g.call("fetch", remote, "--tags", "--force")
}

func (g *Git) ResetHard(ref string) error {
	return g.call("reset", "--hard", ref)
}

func (g *Git) Push() error {
	return g.call("push")
}

func (g *Git) Tags() ([]string, error) {
	out, err := g.sh.Output("", "git", "tag", "--list")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Subjects returns the commit subjects in revRange, newest first.
func (g *Git) Subjects(revRange string) ([]string, error) {
	out, err := g.sh.Output("", "git", "log", "--pretty=format:%s", revRange)
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// StagedFiles lists files that are staged as modified, added or renamed.
func (g *Git) StagedFiles() ([]string, error) {
	out, err := g.sh.Output("", "git", "diff", "--diff-filter=MAR", "--name-only", "--cached")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

func (g *Git) UpdateIndexAdd(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	return g.call(append([]string{"update-index", "--add"}, files...)...)
}

func (g *Git) call(args ...string) error {
	return g.sh.Run("", "git", args...)
}

func lines(out string) []string {
	var res []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			res = append(res, l)
		}
	}
	return res
}
