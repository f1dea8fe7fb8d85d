package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

const Header = "X-Cheevo-Version"

const versionDevel = "devel"

// version is set via ldflags at build time.
// falls back to debug.ReadBuildInfo for go install.
var version = versionDevel

var once sync.Once

func Get() string {
	once.Do(func() {
		if version != versionDevel {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
			version = v
		}
	})
	return version
}

// UserAgent identifies the client to the achievements server, e.g.
// "cheevo/v1.2.0 (linux; amd64)".
func UserAgent() string {
	return userAgent(Get(), runtime.GOOS, runtime.GOARCH)
}

func userAgent(v, goos, goarch string) string {
	if v == "" {
		v = versionDevel
	}
	return fmt.Sprintf("cheevo/%s (%s; %s)", v, goos, goarch)
}
