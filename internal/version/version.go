// Package version exposes release metadata for the ingredix binary.
// The release pipeline stamps these with -ldflags "-X ...".
package version

//nolint:revive // Overwritten by the build; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
