// Package version reports the build of the contentgraph binary.
//
// Version, Commit and Date are injected at link time:
//
//	go build -ldflags "-X github.com/Aman-CERP/contentgraph/pkg/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = "unknown"
	// Date is the build date in RFC3339 format.
	Date = "unknown"
	// GoVersion is the toolchain the binary was built with.
	GoVersion = runtime.Version()
)

// BuildInfo is the build description printed by 'contentgraph version --json'.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetInfo returns the current build description.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String formats the build on one line.
func (b BuildInfo) String() string {
	return fmt.Sprintf("contentgraph %s (commit: %s, built: %s, go: %s, %s/%s)",
		b.Version, b.Commit, b.Date, b.GoVersion, b.OS, b.Arch)
}

// String returns the one-line description of the current build.
func String() string {
	return GetInfo().String()
}

// Short returns just the version.
func Short() string {
	return Version
}
