// Package buildinfo carries the release stamp of a stipple binary.
//
// The linker fills in the values; an unstamped build reports "dev":
//
//	go build -ldflags "-X github.com/matzehuels/stipple/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/stipple/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/stipple/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/stipple
package buildinfo

import "fmt"

// Release stamp, overridden with -ldflags -X.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the stamp as printed by "stipple --version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is String in cobra's version template syntax.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// CacheScope is the prefix for cache keys. Point sets cached by one release
// are never served to another; a dev build also mixes in the commit.
func CacheScope() string {
	if Version == "dev" {
		return Version + "-" + Commit + ":"
	}
	return Version + ":"
}
