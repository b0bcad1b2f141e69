// Package build exposes version metadata stamped in at link time.
package build

import (
	"fmt"
	"runtime/debug"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, Commit(), BuildDate, goVersion())
}

// Commit returns CommitSHA, falling back to the VCS revision recorded by the
// Go toolchain when the binary was not stamped.
func Commit() string {
	if CommitSHA != "unknown" {
		return CommitSHA
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return CommitSHA
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return CommitSHA
}

func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "go unknown"
}
