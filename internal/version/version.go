// Package version exposes build-time version information.
package version

// Set at build time with -ldflags, e.g.
// -X .../internal/version.GitCommit=$(git rev-parse --short HEAD)
var (
	// Version is the semantic version.
	Version = "0.1.0"

	// BuildTime is the UTC time the binary was built.
	BuildTime = "unknown"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)
