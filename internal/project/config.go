package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const ConfigFile = "xtask.toml"

type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	Client    ClientConfig    `toml:"client"`
	Dist      DistConfig      `toml:"dist"`
	Release   ReleaseConfig   `toml:"release"`
	PreCommit PreCommitConfig `toml:"pre_commit"`
	PreCache  PreCacheConfig  `toml:"pre_cache"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	// Package is the path handed to cargo install --path.
	Package         string `toml:"package"`
	Binary          string `toml:"binary"`
	JemallocFeature string `toml:"jemalloc_feature"`
}

type ClientConfig struct {
	Dir         string   `toml:"dir"`
	ExtensionID string   `toml:"extension_id"`
	Editors     []string `toml:"editors"`
}

type DistConfig struct {
	Dir string `toml:"dir"`
}

type ReleaseConfig struct {
	ChangelogDir string `toml:"changelog_dir"`
	Branch       string `toml:"branch"`
	Remote       string `toml:"remote"`
	NightlyTag   string `toml:"nightly_tag"`
}

type PreCommitConfig struct {
	Format []string `toml:"format"`
}

type PreCacheConfig struct {
	TargetDir string   `toml:"target_dir"`
	Packages  []string `toml:"packages"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Package:         "crates/clarity-lsp",
			Binary:          "clarity-lsp",
			JemallocFeature: "jemalloc",
		},
		Client: ClientConfig{
			Dir:     "editors/code",
			Editors: []string{"code", "code-insiders", "codium", "code-oss"},
		},
		Dist: DistConfig{Dir: "dist"},
		Release: ReleaseConfig{
			ChangelogDir: "docs/changelog",
			Branch:       "release",
			Remote:       "upstream",
			NightlyTag:   "nightly",
		},
		PreCommit: PreCommitConfig{Format: []string{"cargo", "fmt"}},
		PreCache: PreCacheConfig{
			TargetDir: "target/debug",
			Packages:  []string{"clarity", "clarity-lsp"},
		},
	}
}

// LoadConfig reads xtask.toml from root on top of DefaultConfig. A missing
// or empty file leaves the defaults untouched. XTASK_LOG_LEVEL and
// XTASK_LOG_FORMAT override the log section.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, err
	case len(strings.TrimSpace(string(data))) > 0:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv("XTASK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("XTASK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, nil
}
