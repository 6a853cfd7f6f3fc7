// Package version carries build metadata set with -ldflags "-X".
package version

import "fmt"

//nolint:revive // overwritten by the linker
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs and the User-Agent header.
func String() string {
	return fmt.Sprintf("geoknow/%s (%s, %s)", Version, Commit, Date)
}
