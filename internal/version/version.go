// Package version holds build version information, overridable at link
// time:
//
//	go build -ldflags "-X github.com/tsawler/pagelens/internal/version.Version=v1.2.3"
package version

// Version is the build version string.
var Version = "dev"
