package wsicheck

import "runtime"

// Version is the release of the validator. Reports and stored history
// rows do not embed it; the CLI prints it.
const Version = "0.1.0"

// Stamped by release builds:
//
//	go build -ldflags "-X github.com/simonhull/wsicheck.gitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/simonhull/wsicheck.buildTime=$(date -u +%FT%TZ)" ./cmd/wsicheck
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)

// GetVersion returns Version.
func GetVersion() string {
	return Version
}

// VersionInfo describes the build of the running validator. GitCommit and
// BuildTime read "unknown" unless the binary was stamped.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// GetVersionInfo reports the release, the stamped commit and build time,
// and the toolchain.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}
