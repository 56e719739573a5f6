package buildinfo

import (
	"fmt"
	"runtime"
)

// Build-time variables (set via ldflags).
var (
	// Version is the semantic version.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// ProductName prefixes the User-Agent and version output.
const ProductName = "smsauth-cli"

// Info contains build information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	DevBuild  bool   `json:"dev_build" yaml:"dev_build"`
}

// Get returns the build information. devBuild reports whether the binary
// carries the development fallback.
func Get(devBuild bool) Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		DevBuild:  devBuild,
	}
}

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("%s %s (%s) built at %s", ProductName, Version, Commit, BuildTime)
}

// UserAgent returns the User-Agent sent to the backend.
func UserAgent() string {
	return ProductName + "/" + Version
}
