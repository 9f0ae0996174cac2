// Package shelltest provides a recording shell.Runner for tests.
package shelltest

import (
	"fmt"
	"strings"

	"clarity.dev/tools/internal/shell"
)

var _ shell.Runner = (*Fake)(nil)

// Fake records commands instead of running them. Outputs maps a command
// line ("git tag --list") to the output returned by Output, and Fail maps
// a command line to the error returned by Run or Output. Path lists the
// tools LookPath finds.
type Fake struct {
	Calls   []string
	Outputs map[string]string
	Fail    map[string]error
	Path    []string
}

func (f *Fake) Run(dir, name string, args ...string) error {
	line := f.record(dir, name, args)
	return f.Fail[line]
}

func (f *Fake) Output(dir, name string, args ...string) (string, error) {
	line := f.record(dir, name, args)
	if err := f.Fail[line]; err != nil {
		return "", err
	}
	return f.Outputs[line], nil
}

func (f *Fake) LookPath(name string) (string, error) {
	for _, p := range f.Path {
		if p == name {
			return "/usr/bin/" + name, nil
		}
	}
	return "", fmt.Errorf("%s: executable file not found", name)
}

func (f *Fake) record(dir, name string, args []string) string {
	line := strings.Join(append([]string{name}, args...), " ")
	if dir != "" {
		f.Calls = append(f.Calls, "["+dir+"] "+line)
	} else {
		f.Calls = append(f.Calls, line)
	}
	return line
}

// Ran reports whether a command line starting with prefix was recorded.
func (f *Fake) Ran(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(stripDir(c), prefix) {
			return true
		}
	}
	return false
}

func stripDir(call string) string {
	if strings.HasPrefix(call, "[") {
		if i := strings.Index(call, "] "); i >= 0 {
			return call[i+2:]
		}
	}
	return call
}
