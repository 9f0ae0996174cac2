// Package project locates the project root and its xtask.toml.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides root discovery when set.
const RootEnv = "XTASK_PROJECT_ROOT"

// FindRoot returns $XTASK_PROJECT_ROOT if set. Otherwise it walks up from
// the working directory to the first directory holding xtask.toml or .git.
func FindRoot() (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		return filepath.Abs(root)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findRootFrom(wd)
}

func findRootFrom(dir string) (string, error) {
	start := dir
	for {
		for _, marker := range []string{ConfigFile, ".git"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or .git found above %s", ConfigFile, start)
		}
		dir = parent
	}
}
