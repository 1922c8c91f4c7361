// Package version provides build-time version information.
//
// Set at build time via:
//
//	go build -ldflags "-X github.com/vinzlac/mcp-server-brave-test/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

// Version is the release advertised to tool servers and clients.
const Version = "1.0.0"

// GitCommit is the short git commit hash, set at build time via ldflags.
var GitCommit = "dev"

// String returns "Version (GitCommit)".
func String() string {
	return Version + " (" + GitCommit + ")"
}
