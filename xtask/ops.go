package main

import (
	"clarity.dev/tools/internal/git"
	"clarity.dev/tools/internal/project"
	"clarity.dev/tools/internal/shell"
	"clarity.dev/tools/xtask/internal/dist"
	"clarity.dev/tools/xtask/internal/install"
	"clarity.dev/tools/xtask/internal/precache"
	"clarity.dev/tools/xtask/internal/precommit"
	"clarity.dev/tools/xtask/internal/release"
)

type operations struct {
	root string
	cfg  project.Config
	sh   shell.Runner
}

func (o *operations) Install(cmd install.Cmd) error {
	return install.New(o.root, o.cfg, o.sh).Run(cmd)
}

func (o *operations) Dist(client *dist.ClientOpts) error {
	return dist.New(o.root, o.cfg, o.sh).Run(client)
}

func (o *operations) Release(dryRun bool) error {
	return release.New(o.root, o.cfg.Release, git.New(o.sh)).Run(dryRun)
}

func (o *operations) PreCache() error {
	return precache.Run(o.root, o.cfg.PreCache)
}

func (o *operations) InstallHook() error {
	return precommit.New(o.root, o.cfg.PreCommit, o.sh).Install()
}
