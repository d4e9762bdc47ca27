package build

import "fmt"

// These values are injected at build-time with -ldflags "-X".
var (
	VERSION   = "v0.1.0"
	BuildDate string
	Commit    string
)

// Info describes the running binary for the startup log line.
func Info() string {
	if Commit == "" {
		return VERSION
	}
	return fmt.Sprintf("%s (commit %s, built %s)", VERSION, Commit, BuildDate)
}
