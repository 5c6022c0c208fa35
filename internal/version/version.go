// Package version carries build metadata stamped in via -ldflags.
package version

import "fmt"

var (
	// Version is the release version of the field tools.
	Version = "dev"
	// GitSHA is the git commit SHA of the build.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String returns a single-line description of the build.
func String() string {
	return fmt.Sprintf("chamber %s (%s, built %s)", Version, GitSHA, BuildTime)
}
