package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X embedhttp/internal/version.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

func GetVersion() string {
	return fmt.Sprintf("embedhttp %s (commit: %s, built: %s, %s)", Version, Commit, BuildDate, runtime.Version())
}

func GetShortVersion() string {
	return Version
}

// ServerHeader is the value sent in the Server response header.
func ServerHeader() string {
	return "embedhttp/" + Version
}
