// Package build holds build-time information.
package build

// Build metadata, overwritten by linker flags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent is the User-Agent header sent to mirrors.
func UserAgent() string {
	return "genpack/" + Version
}
