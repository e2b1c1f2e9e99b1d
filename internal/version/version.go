package version

import (
	"runtime"
)

var (
	Version   = "dev"             // ex: v0.3.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-10-19T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// UserAgent is sent with every request to the remote service.
func UserAgent() string {
	return "see-desktop/" + Version + " (" + GoVersion + ")"
}
