package version

import (
	"fmt"
	"runtime"

	"github.com/okapiscan/okapi"
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// String formats the banner printed by the version command, including
// the decoder library version.
func String() string {
	major, minor, patch := okapi.Version()
	return fmt.Sprintf("okapi %s (decoder %d.%d.%d, commit %s, built %s, %s)",
		Version, major, minor, patch, GitCommit, BuildDate, runtime.Version())
}
