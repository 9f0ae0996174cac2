// Package install installs the language server and the VS Code extension
// from the working tree.
package install

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tidwall/gjson"

	"clarity.dev/tools/internal/project"
	"clarity.dev/tools/internal/shell"
)

type ClientOpt int

const (
	VSCode ClientOpt = iota
)

func (c ClientOpt) String() string {
	return []string{"vscode"}[c]
}

type ServerOpt struct {
	Jemalloc bool
}

// Cmd selects what to install. A nil leg is skipped.
type Cmd struct {
	Client *ClientOpt
	Server *ServerOpt
}

type Installer struct {
	root string
	cfg  project.Config
	sh   shell.Runner
}

func New(root string, cfg project.Config, sh shell.Runner) *Installer {
	return &Installer{root: root, cfg: cfg, sh: sh}
}

func (i *Installer) Run(c Cmd) error {
	if c.Client != nil {
		slog.Info("installing client", "client", c.Client.String())
		if err := i.installClient(); err != nil {
			return fmt.Errorf("failed to install the VS Code extension: %w", err)
		}
	}
	if c.Server != nil {
		slog.Info("installing server", "jemalloc", c.Server.Jemalloc)
		if err := i.installServer(*c.Server); err != nil {
			return fmt.Errorf("failed to install the language server: %w", err)
		}
	}
	return nil
}

func (i *Installer) installClient() error {
	dir := filepath.Join(i.root, i.cfg.Client.Dir)
	vsix := i.cfg.Server.Binary + ".vsix"

	if err := i.sh.Run(dir, npm(), "ci"); err != nil {
		return err
	}
	if err := i.sh.Run(dir, npm(), "run", "package", "--scripts-prepend-node-path", "--", "-o", vsix); err != nil {
		return err
	}

	editor, err := i.findEditor()
	if err != nil {
		return err
	}
	if err := i.sh.Run(dir, editor, "--install-extension", vsix, "--force"); err != nil {
		return err
	}

	id, err := i.extensionID(dir)
	if err != nil {
		return err
	}
	installed, err := i.sh.Output(dir, editor, "--list-extensions")
	if err != nil {
		return err
	}
	for _, ext := range strings.Split(installed, "\n") {
		if strings.EqualFold(strings.TrimSpace(ext), id) {
			return nil
		}
	}
	return fmt.Errorf("%s is not listed by %s --list-extensions after installation", id, editor)
}

func (i *Installer) findEditor() (string, error) {
	for _, e := range i.cfg.Client.Editors {
		if runtime.GOOS == "windows" {
			e += ".cmd"
		}
		if _, err := i.sh.LookPath(e); err == nil {
			return e, nil
		}
	}
	return "", fmt.Errorf("none of %s found in PATH", strings.Join(i.cfg.Client.Editors, ", "))
}

// extensionID returns the configured id or publisher.name from package.json.
func (i *Installer) extensionID(dir string) (string, error) {
	if i.cfg.Client.ExtensionID != "" {
		return i.cfg.Client.ExtensionID, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", err
	}
	res := gjson.GetManyBytes(data, "publisher", "name")
	if res[0].String() == "" || res[1].String() == "" {
		return "", fmt.Errorf("package.json in %s has no publisher or name", dir)
	}
	return res[0].String() + "." + res[1].String(), nil
}

func (i *Installer) installServer(opt ServerOpt) error {
	args := []string{"install", "--path", i.cfg.Server.Package, "--locked", "--force"}
	if opt.Jemalloc {
		args = append(args, "--features", i.cfg.Server.JemallocFeature)
	}
	return i.sh.Run(i.root, "cargo", args...)
}

func npm() string {
	if runtime.GOOS == "windows" {
		return "npm.cmd"
	}
	return "npm"
}
