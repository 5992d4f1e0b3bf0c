// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X .../internal/version.version=v1.2.3 ..."
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info returns the raw version, commit and build date.
func Info() (v, c, d string) {
	return version, commit, date
}

// String renders the build info in the form logged at startup and reported
// by the status endpoint.
func String() string {
	v, c, d := Info()
	return fmt.Sprintf("version=%s commit=%s date=%s", v, c, d)
}
