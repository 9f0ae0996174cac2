// Package release moves the release branch to the nightly tag and writes
// a changelog draft for the new release.
package release

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"clarity.dev/tools/internal/git"
	"clarity.dev/tools/internal/project"
)

type Releaser struct {
	root string
	cfg  project.ReleaseConfig
	git  *git.Git
	now  func() time.Time
}

func New(root string, cfg project.ReleaseConfig, g *git.Git) *Releaser {
	return &Releaser{root: root, cfg: cfg, git: g, now: time.Now}
}

// Run publishes the nightly tag on the release branch unless dryRun is
// set, then writes the changelog draft.
func (r *Releaser) Run(dryRun bool) error {
	if !dryRun {
		if err := r.publish(); err != nil {
			return err
		}
	} else {
		slog.Info("dry run, not touching the release branch", "branch", r.cfg.Branch)
	}

	tags, err := r.git.Tags()
	if err != nil {
		return err
	}
	prev := previousTag(tags)
	revs := "HEAD"
	if prev != "" {
		revs = prev + "..HEAD"
	}
	subjects, err := r.git.Subjects(revs)
	if err != nil {
		return err
	}

	path, err := r.writeChangelog(prev, subjects)
	if err != nil {
		return err
	}
	slog.Info("changelog written", "path", path, "since", prev, "commits", len(subjects))
	return nil
}

func (r *Releaser) publish() error {
	slog.Info("resetting release branch", "branch", r.cfg.Branch, "tag", r.cfg.NightlyTag)
	if err := r.git.Switch(r.cfg.Branch); err != nil {
		return err
	}
	if err := r.git.FetchTags(r.cfg.Remote); err != nil {
		return err
	}
	if err := r.git.ResetHard("tags/" + r.cfg.NightlyTag); err != nil {
		return err
	}
	return r.git.Push()
}

// previousTag returns the highest stable semver tag, or "" if there is
// none. Tags without the leading "v" are accepted.
func previousTag(tags []string) string {
	var best, bestTag string
	for _, tag := range tags {
		v := tag
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if !semver.IsValid(v) || semver.Prerelease(v) != "" {
			continue
		}
		if best == "" || semver.Compare(v, best) > 0 {
			best, bestTag = v, tag
		}
	}
	return bestTag
}

func (r *Releaser) writeChangelog(prev string, subjects []string) (string, error) {
	date := r.now().Format("2006-01-02")
	dir := filepath.Join(r.root, r.cfg.ChangelogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Changelog %s\n\n", date)
	if prev != "" {
		fmt.Fprintf(&b, "Changes since %s:\n\n", prev)
	}
	for _, s := range subjects {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	path := filepath.Join(dir, date+"-changelog.md")
	return path, os.WriteFile(path, []byte(b.String()), 0o644)
}
