// Package task turns xtask command lines into calls of build operations.
//
// Main is the whole control flow of a run: the pre-commit hook check, the
// move into the project root, and the dispatch of one subcommand. Every
// subcommand consumes the flags it knows and rejects anything left over.
package task

import (
	"fmt"
	"io"

	"clarity.dev/tools/internal/args"
	"clarity.dev/tools/internal/pushd"
	"clarity.dev/tools/xtask/internal/dist"
	"clarity.dev/tools/xtask/internal/install"
	"clarity.dev/tools/xtask/internal/precommit"
)

// Operations are the build steps a subcommand ends up running.
type Operations interface {
	Install(cmd install.Cmd) error
	Dist(client *dist.ClientOpts) error
	Release(dryRun bool) error
	PreCache() error
	InstallHook() error
}

type Subcommand string

const (
	Install              Subcommand = "install"
	InstallPreCommitHook Subcommand = "install-pre-commit-hook"
	PreCache             Subcommand = "pre-cache"
	Release              Subcommand = "release"
	Dist                 Subcommand = "dist"
)

type handler func(a *args.Arguments, ops Operations, stderr io.Writer) error

var handlers = map[Subcommand]handler{
	Install:              runInstall,
	InstallPreCommitHook: runInstallHook,
	PreCache:             runPreCache,
	Release:              runRelease,
	Dist:                 runDist,
}

// Entry is what Main needs from the environment. Open prepares the
// operations for the project at root.
type Entry struct {
	FindRoot func() (string, error)
	Open     func(root string) (Operations, error)
	RunHook  func() error
}

// Main runs one xtask invocation. argv includes the program name.
func Main(argv []string, e Entry, stderr io.Writer) error {
	if len(argv) > 0 && precommit.IsHookInvocation(argv[0]) {
		return e.RunHook()
	}

	root, err := e.FindRoot()
	if err != nil {
		return err
	}
	ops, err := e.Open(root)
	if err != nil {
		return err
	}
	var rest []string
	if len(argv) > 0 {
		rest = argv[1:]
	}
	return Run(root, rest, ops, stderr)
}

// Run dispatches argv with the working directory set to root. The previous
// working directory is restored before Run returns.
func Run(root string, argv []string, ops Operations, stderr io.Writer) error {
	d, err := pushd.Push(root)
	if err != nil {
		return fmt.Errorf("failed to enter project root: %w", err)
	}
	defer d.Pop()
	return Dispatch(argv, ops, stderr)
}

// Dispatch runs the subcommand named by the first token of argv. An unknown
// or missing subcommand prints the usage and is not an error.
func Dispatch(argv []string, ops Operations, stderr io.Writer) error {
	a := args.New(argv)
	h, ok := handlers[Subcommand(a.Subcommand())]
	if !ok {
		fmt.Fprint(stderr, usage)
		return nil
	}
	return h(a, ops, stderr)
}

func runInstall(a *args.Arguments, ops Operations, stderr io.Writer) error {
	cmd, help, err := parseInstall(a)
	if err != nil {
		return err
	}
	if help {
		fmt.Fprint(stderr, installHelp)
		return nil
	}
	return ops.Install(cmd)
}

func runInstallHook(a *args.Arguments, ops Operations, _ io.Writer) error {
	if err := a.Finish(); err != nil {
		return err
	}
	return ops.InstallHook()
}

func runPreCache(a *args.Arguments, ops Operations, _ io.Writer) error {
	if err := a.Finish(); err != nil {
		return err
	}
	return ops.PreCache()
}

func runRelease(a *args.Arguments, ops Operations, _ io.Writer) error {
	dryRun, err := parseRelease(a)
	if err != nil {
		return err
	}
	return ops.Release(dryRun)
}

func runDist(a *args.Arguments, ops Operations, _ io.Writer) error {
	client, err := parseDist(a)
	if err != nil {
		return err
	}
	return ops.Dist(client)
}

const installHelp = `xtask install
Install clarity-lsp server or editor plugin.

USAGE:
    xtask install [FLAGS]

FLAGS:
        --client-code    Install only VS Code plugin
        --server         Install only the language server
        --jemalloc       Use jemalloc for server
    -h, --help           Prints help information
`

const usage = `xtask
Run custom build command.

USAGE:
    xtask <SUBCOMMAND>

SUBCOMMANDS:
    install
    install-pre-commit-hook
    pre-cache
    release
    dist
`
