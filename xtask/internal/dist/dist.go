// Package dist packages the language server and, optionally, the VS Code
// extension into the dist directory.
package dist

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"clarity.dev/tools/internal/project"
	"clarity.dev/tools/internal/shell"
)

type ClientOpts struct {
	Version    string
	ReleaseTag string
}

type Dist struct {
	root string
	cfg  project.Config
	sh   shell.Runner

	GOOS   string
	GOARCH string
}

func New(root string, cfg project.Config, sh shell.Runner) *Dist {
	return &Dist{root: root, cfg: cfg, sh: sh, GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}
}

func (d *Dist) Run(client *ClientOpts) error {
	distDir := filepath.Join(d.root, d.cfg.Dist.Dir)
	if err := os.RemoveAll(distDir); err != nil {
		return err
	}
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return err
	}

	if client != nil {
		slog.Info("packaging client", "version", client.Version, "tag", client.ReleaseTag)
		if err := d.distClient(distDir, *client); err != nil {
			return err
		}
	}
	slog.Info("packaging server", "os", d.GOOS, "arch", d.GOARCH)
	return d.distServer(distDir)
}

func (d *Dist) distClient(distDir string, opts ClientOpts) error {
	dir := filepath.Join(d.root, d.cfg.Client.Dir)
	pkgPath := filepath.Join(dir, "package.json")

	original, err := os.ReadFile(pkgPath)
	if err != nil {
		return err
	}
	patched, err := patchPackageJSON(original, opts, d.cfg.Release.NightlyTag)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.WriteFile(pkgPath, original, 0o644); err != nil {
			slog.Warn("failed to restore package.json", "path", pkgPath, "err", err)
		}
	}()
	if err := os.WriteFile(pkgPath, patched, 0o644); err != nil {
		return err
	}

	vsix := filepath.Join(distDir, d.cfg.Server.Binary+".vsix")
	if err := d.sh.Run(dir, npm(d.GOOS), "ci"); err != nil {
		return err
	}
	return d.sh.Run(dir, npm(d.GOOS), "run", "package", "--scripts-prepend-node-path", "--", "-o", vsix)
}

// patchPackageJSON stamps the version and release tag into an extension
// manifest. Nightly builds also get a distinct display name.
func patchPackageJSON(data []byte, opts ClientOpts, nightlyTag string) ([]byte, error) {
	data, err := sjson.SetBytes(data, "version", opts.Version)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "releaseTag", opts.ReleaseTag)
	if err != nil {
		return nil, err
	}
	if opts.ReleaseTag != nightlyTag {
		return data, nil
	}
	name := gjson.GetBytes(data, "displayName")
	if !name.Exists() {
		return data, nil
	}
	return sjson.SetBytes(data, "displayName", name.String()+" (nightly)")
}

func (d *Dist) distServer(distDir string) error {
	platform, err := lookupPlatform(d.GOOS, d.GOARCH)
	if err != nil {
		return err
	}
	binary := d.cfg.Server.Binary
	err = d.sh.Run(d.root, "cargo", "build",
		"--manifest-path", filepath.Join(d.cfg.Server.Package, "Cargo.toml"),
		"--bin", binary,
		"--release",
	)
	if err != nil {
		return err
	}

	exe := binary
	if d.GOOS == "windows" {
		exe += ".exe"
	}
	src := filepath.Join(d.root, "target", "release", exe)
	name := binary + "-" + platform.triple

	if err := gzipFile(src, filepath.Join(distDir, name+".gz")); err != nil {
		return err
	}
	if platform.zip {
		return zipFile(src, filepath.Join(distDir, name+".zip"), exe)
	}
	return nil
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	w, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return out.Close()
}

func zipFile(src, dst, path string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	z := zip.NewWriter(f)
	if err := addToZip(z, src, path); err != nil {
		return err
	}
	if err := z.Close(); err != nil {
		return err
	}
	return f.Close()
}

func addToZip(z *zip.Writer, fileName, path string) error {
	src, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer src.Close()
	w, err := z.Create(filepath.ToSlash(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func npm(goos string) string {
	if goos == "windows" {
		return "npm.cmd"
	}
	return "npm"
}
