// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/affected/internal/version.Version=v1.2.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("affected %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
