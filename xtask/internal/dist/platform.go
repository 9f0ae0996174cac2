package dist

import "fmt"

type targetPlatform struct {
	triple string
	zip    bool
}

var platformMap = map[string]targetPlatform{
	"linux/amd64":   {"x86_64-unknown-linux-gnu", false},
	"linux/arm64":   {"aarch64-unknown-linux-gnu", false},
	"darwin/amd64":  {"x86_64-apple-darwin", false},
	"darwin/arm64":  {"aarch64-apple-darwin", false},
	"windows/amd64": {"x86_64-pc-windows-msvc", true},
	"windows/arm64": {"aarch64-pc-windows-msvc", true},
}

func lookupPlatform(goos, goarch string) (targetPlatform, error) {
	p, ok := platformMap[goos+"/"+goarch]
	if !ok {
		return targetPlatform{}, fmt.Errorf("unsupported platform %s/%s", goos, goarch)
	}
	return p, nil
}
