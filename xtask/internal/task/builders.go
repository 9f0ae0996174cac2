package task

import (
	"errors"
	"fmt"

	"clarity.dev/tools/internal/args"
	"clarity.dev/tools/xtask/internal/dist"
	"clarity.dev/tools/xtask/internal/install"
)

var ErrConflictingFlags = errors.New("the argument `--server` cannot be used with `--client-code`")

type installFlags struct {
	server     bool
	clientCode bool
}

type installLegs struct {
	client bool
	server bool
}

// installTable maps every --server/--client-code combination to the legs
// it installs. A missing entry is a conflict.
var installTable = map[installFlags]installLegs{
	{server: false, clientCode: false}: {client: true, server: true},
	{server: true, clientCode: false}:  {client: false, server: true},
	{server: false, clientCode: true}:  {client: true, server: false},
}

// parseInstall builds the install command. help is true when -h or --help
// was given; nothing else is read in that case.
func parseInstall(a *args.Arguments) (cmd install.Cmd, help bool, err error) {
	if a.Contains("-h", "--help") {
		return install.Cmd{}, true, nil
	}
	flags := installFlags{
		server:     a.Contains("--server"),
		clientCode: a.Contains("--client-code"),
	}
	legs, ok := installTable[flags]
	if !ok {
		return install.Cmd{}, false, fmt.Errorf("%w\n\nFor more information try --help", ErrConflictingFlags)
	}
	jemalloc := a.Contains("--jemalloc")
	if err := a.Finish(); err != nil {
		return install.Cmd{}, false, err
	}

	if legs.client {
		client := install.VSCode
		cmd.Client = &client
	}
	if legs.server {
		cmd.Server = &install.ServerOpt{Jemalloc: jemalloc}
	}
	return cmd, false, nil
}

func parseRelease(a *args.Arguments) (dryRun bool, err error) {
	dryRun = a.Contains("--dry-run")
	return dryRun, a.Finish()
}

func parseDist(a *args.Arguments) (*dist.ClientOpts, error) {
	var client *dist.ClientOpts
	if a.Contains("--client") {
		version, err := a.ValueFromStr("--version")
		if err != nil {
			return nil, err
		}
		tag, err := a.ValueFromStr("--tag")
		if err != nil {
			return nil, err
		}
		client = &dist.ClientOpts{Version: version, ReleaseTag: tag}
	}
	if err := a.Finish(); err != nil {
		return nil, err
	}
	return client, nil
}
