// Package precache prunes workspace artifacts from the cargo target
// directory so that a CI cache only keeps third-party dependencies.
package precache

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"clarity.dev/tools/internal/project"
)

var cacheDirs = []string{"deps", ".fingerprint", "build"}

func Run(root string, cfg project.PreCacheConfig) error {
	target := filepath.Join(root, cfg.TargetDir)
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		slog.Info("nothing to prune", "dir", target)
		return nil
	} else if err != nil {
		return err
	}

	artifact := workspaceArtifact(cfg.Packages)
	var g errgroup.Group
	for _, name := range cacheDirs {
		dir := filepath.Join(target, name)
		g.Go(func() error {
			return prune(dir, artifact)
		})
	}
	g.Go(func() error {
		return os.RemoveAll(filepath.Join(target, "incremental"))
	})
	return g.Wait()
}

// workspaceArtifact matches the names cargo gives artifacts of the given
// packages: the package or crate name, optionally prefixed with "lib",
// then a 16 digit hash and an optional extension.
func workspaceArtifact(packages []string) *regexp.Regexp {
	var names []string
	for _, p := range packages {
		names = append(names, regexp.QuoteMeta(p), regexp.QuoteMeta(strings.ReplaceAll(p, "-", "_")))
	}
	if len(names) == 0 {
		return regexp.MustCompile(`$^`)
	}
	return regexp.MustCompile(`^(lib)?(` + strings.Join(names, "|") + `)-[0-9a-f]{16}(\..*)?$`)
}

func prune(dir string, artifact *regexp.Regexp) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	removed := 0
	for _, e := range entries {
		if !artifact.MatchString(e.Name()) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
		removed++
	}
	slog.Debug("pruned cache dir", "dir", dir, "removed", removed)
	return nil
}
